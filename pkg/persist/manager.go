package persist

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

// DefaultDebounce is the quiet period a save waits for before hitting
// storage. Saves scheduled inside the window coalesce into one write.
const DefaultDebounce = 500 * time.Millisecond

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Storage is the durable medium. Required.
	Storage Storage

	// Seed produces the default board used when nothing valid is stored.
	// Required.
	Seed func() []board.Instance

	// Debounce overrides DefaultDebounce. Zero means the default; tests
	// use a tiny value.
	Debounce time.Duration

	// Logger receives recovery and quota events. Nil means slog.Default.
	Logger *slog.Logger
}

// Manager owns the durable copy of the widget sequence. It only ever reads
// the in-memory sequence handed to Save; it never mutates the Store.
type Manager struct {
	storage  Storage
	seed     func() []board.Instance
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending []board.Instance
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{
		storage:  cfg.Storage,
		seed:     cfg.Seed,
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
}

// Load reads the durable layout. It never fails: a missing value returns
// the default seed, and a corrupt value (invalid JSON, wrong shape, or any
// malformed record) is discarded wholesale in favor of the seed. Recovery
// is logged, never surfaced.
func (m *Manager) Load() []board.Instance {
	data, err := m.storage.Read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("layout read failed, seeding defaults", "error", err)
		}
		return m.seed()
	}

	seq, err := DecodeLayout(data)
	if err != nil {
		m.logger.Warn("discarding corrupt layout, seeding defaults", "error", err)
		return m.seed()
	}
	return seq
}

// Save schedules a debounced durable write of the sequence. A Save arriving
// while one is pending replaces the pending payload and restarts the quiet
// period.
func (m *Manager) Save(seq []board.Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = board.CloneSequence(seq)
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.flushPending)
}

// Flush writes any pending save synchronously. Call on teardown so a
// reorder immediately before quitting is not lost.
func (m *Manager) Flush() {
	m.flushPending()
}

// Close flushes and releases the debounce timer.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	m.flushPending()
	return nil
}

// flushPending performs the actual write for the most recent pending
// sequence, if any.
func (m *Manager) flushPending() {
	m.mu.Lock()
	seq := m.pending
	m.pending = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	if seq == nil {
		return
	}
	m.write(seq)
}

// write serializes and stores the sequence. A quota failure retries once
// with the minimized projection; a second failure leaves the session state
// intact in memory but not durable, which is logged and otherwise ignored.
func (m *Manager) write(seq []board.Instance) {
	data, err := EncodeLayout(seq)
	if err != nil {
		m.logger.Error("layout encode failed", "error", err)
		return
	}

	err = m.storage.Write(data)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		m.logger.Error("layout write failed", "error", err)
		return
	}

	m.logger.Warn("layout over storage quota, retrying minimized", "bytes", len(data))
	minimized, err := EncodeLayout(MinimizeLayout(seq))
	if err != nil {
		m.logger.Error("minimized layout encode failed", "error", err)
		return
	}
	if err := m.storage.Write(minimized); err != nil {
		m.logger.Error("minimized layout write failed; session state not durable", "error", err)
	}
}
