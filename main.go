// gridpulse is a terminal widget dashboard: a fixed-column grid of
// stock, weather, notes, clock, and GitHub cards that can be reordered
// by dragging with the mouse or grabbing with the keyboard. Layout
// changes are debounced and persisted to a single JSON file, so the
// board comes back exactly as it was left.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/config"
	"gitlab.com/tinyland/lab/gridpulse/pkg/drag"
	"gitlab.com/tinyland/lab/gridpulse/pkg/feeds"
	"gitlab.com/tinyland/lab/gridpulse/pkg/persist"
	"gitlab.com/tinyland/lab/gridpulse/pkg/registry"
	"gitlab.com/tinyland/lab/gridpulse/pkg/tui"
	"gitlab.com/tinyland/lab/gridpulse/pkg/widgets"
)

// Version information - set by build flags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// minTermWidth and minTermHeight are the smallest terminal the board
// renders usefully in.
const (
	minTermWidth  = 40
	minTermHeight = 10
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: XDG config dir)")
		dataDir     = flag.String("data-dir", "", "Directory for the layout file (overrides config)")
		columns     = flag.Int("columns", 0, "Grid column count (overrides config)")
		themeName   = flag.String("theme", "", "Color theme: default, light, solarized, nord, auto")
		resetLayout = flag.Bool("reset", false, "Discard the saved layout and start from the default board")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("gridpulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	if *columns > 0 {
		cfg.Board.Columns = *columns
	}
	if *themeName != "" {
		cfg.Theme.Name = *themeName
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// The board is interactive only.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "gridpulse requires an interactive terminal")
		os.Exit(1)
	}
	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil {
		if w < minTermWidth || h < minTermHeight {
			fmt.Fprintf(os.Stderr, "terminal too small: %dx%d (need at least %dx%d)\n",
				w, h, minTermWidth, minTermHeight)
			os.Exit(1)
		}
	}

	// Setup logging - write to both stderr and log file
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(cfg.Storage.DataDir, "gridpulse.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	multiWriter := io.MultiWriter(os.Stderr, logFile)
	logger := slog.New(slog.NewTextHandler(multiWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	// Durable layout storage
	maxBytes := cfg.Storage.MaxBytes
	if maxBytes <= 0 {
		maxBytes = persist.DefaultMaxBytes
	}
	storage, err := persist.NewFileStorage(cfg.Storage.DataDir, maxBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open data directory: %v\n", err)
		os.Exit(1)
	}
	if *resetLayout {
		if err := os.Remove(storage.Path()); err != nil && !os.IsNotExist(err) {
			logger.Warn("layout reset failed", "error", err)
		} else {
			logger.Info("layout reset", "path", storage.Path())
		}
	}

	debounce := cfg.Storage.SaveDebounce.Duration
	if debounce <= 0 {
		debounce = persist.DefaultDebounce
	}
	saver := persist.NewManager(persist.ManagerConfig{
		Storage:  storage,
		Seed:     registry.DefaultSeed,
		Debounce: debounce,
		Logger:   logger,
	})
	defer saver.Close()

	// Board state and drag controller
	store := board.NewStore(saver.Load())
	ctrl := drag.NewController(store, cfg.Board.Columns, registry.NewInstance)
	client := feeds.NewClient(cfg.Feeds.Timeout.Duration)

	model := tui.New(tui.Options{
		Store:      store,
		Controller: ctrl,
		Saver:      saver,
		Client:     client,
		Intervals: widgets.Intervals{
			Stock:   cfg.Feeds.StockInterval.Duration,
			Weather: cfg.Feeds.WeatherInterval.Duration,
			GitHub:  cfg.Feeds.GitHubInterval.Duration,
		},
		Columns:    cfg.Board.Columns,
		CardHeight: cfg.Board.CardHeight,
		Gap:        cfg.Board.Gap,
		ThemeName:  cfg.Theme.Name,
		Logger:     logger,
	})

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	logger.Info("starting board", "columns", cfg.Board.Columns, "layout", storage.Path())

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("TUI error", "error", err)
		saver.Flush()
		os.Exit(1)
	}

	// Write any pending layout change before exiting.
	saver.Flush()
	logger.Info("board stopped")
}
