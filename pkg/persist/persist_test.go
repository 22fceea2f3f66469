package persist

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSeed() []board.Instance {
	return []board.Instance{
		{ID: "stock-default", Kind: board.KindStock, Config: board.Config{Ticker: "AAPL"}},
		{ID: "weather-default", Kind: board.KindWeather, Config: board.Config{UseAutoLocation: true, UnitType: "metric"}},
		{ID: "notes-default", Kind: board.KindNotes},
	}
}

// memStorage is an in-memory Storage with an optional quota.
type memStorage struct {
	mu       sync.Mutex
	data     []byte
	maxBytes int
	writes   int
}

func (m *memStorage) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memStorage) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.maxBytes > 0 && len(data) > m.maxBytes {
		return ErrQuotaExceeded
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memStorage) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func newTestManager(st Storage, debounce time.Duration) *Manager {
	return NewManager(ManagerConfig{
		Storage:  st,
		Seed:     testSeed,
		Debounce: debounce,
		Logger:   quietLogger(),
	})
}

// --- codec ---

func TestLayoutRoundTrip(t *testing.T) {
	seq := []board.Instance{
		{ID: "stock-1", Kind: board.KindStock, Config: board.Config{Ticker: "NVDA"}},
		{ID: "stock-table-1", Kind: board.KindStockTable, Config: board.Config{Tickers: []string{"AAPL", "TSLA"}}},
		{ID: "github-1", Kind: board.KindGitHub, Config: board.Config{Username: "octocat"}},
		{ID: "clock-1", Kind: board.KindClock},
	}

	data, err := EncodeLayout(seq)
	if err != nil {
		t.Fatalf("EncodeLayout: %v", err)
	}
	got, err := DecodeLayout(data)
	if err != nil {
		t.Fatalf("DecodeLayout: %v", err)
	}
	if !reflect.DeepEqual(got, seq) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, seq)
	}
}

func TestDecodeStripsLegacyDimensions(t *testing.T) {
	legacy := `[
		{"id":"stock-1","type":"stock","config":{"ticker":"AAPL"},"width":320,"height":240},
		{"id":"clock-1","type":"clock","height":120}
	]`

	seq, err := DecodeLayout([]byte(legacy))
	if err != nil {
		t.Fatalf("DecodeLayout: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("len = %d, want 2", len(seq))
	}

	// Re-encoding carries no trace of the legacy fields.
	data, err := EncodeLayout(seq)
	if err != nil {
		t.Fatalf("EncodeLayout: %v", err)
	}
	if strings.Contains(string(data), "width") || strings.Contains(string(data), "height") {
		t.Errorf("legacy fields survived migration: %s", data)
	}

	// Migration is a fixed point: decode(encode(x)) == x.
	again, err := DecodeLayout(data)
	if err != nil {
		t.Fatalf("second DecodeLayout: %v", err)
	}
	if !reflect.DeepEqual(again, seq) {
		t.Error("migration is not idempotent")
	}
}

func TestDecodeRejectsMalformedLayouts(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `{ invalid json }`},
		{"not an array", `{"id":"stock-1","type":"stock"}`},
		{"missing id", `[{"type":"stock"}]`},
		{"unknown type", `[{"id":"x-1","type":"sysmetrics"}]`},
		{"null element", `[null]`},
	}
	for _, c := range cases {
		if _, err := DecodeLayout([]byte(c.data)); err == nil {
			t.Errorf("%s: DecodeLayout accepted %q", c.name, c.data)
		}
	}
}

func TestMinimizeLayoutDropsNotesText(t *testing.T) {
	seq := []board.Instance{
		{ID: "notes-1", Kind: board.KindNotes, Config: board.Config{Text: strings.Repeat("x", 4096)}},
		{ID: "stock-1", Kind: board.KindStock, Config: board.Config{Ticker: "AAPL"}},
	}
	min := MinimizeLayout(seq)
	if min[0].Config.Text != "" {
		t.Error("minimized layout kept notes text")
	}
	if min[1].Config.Ticker != "AAPL" {
		t.Error("minimized layout dropped an identity field")
	}
}

// --- manager ---

func TestLoadMissingReturnsSeed(t *testing.T) {
	m := newTestManager(&memStorage{}, time.Millisecond)
	if got := m.Load(); !reflect.DeepEqual(got, testSeed()) {
		t.Errorf("Load on empty storage = %+v", got)
	}
}

func TestLoadCorruptReseedsAndSaveOverwrites(t *testing.T) {
	st := &memStorage{data: []byte(`{ invalid json }`)}
	m := newTestManager(st, time.Millisecond)

	got := m.Load()
	if !reflect.DeepEqual(got, testSeed()) {
		t.Fatalf("Load on corrupt storage = %+v", got)
	}

	// A subsequent save replaces the corrupted value with valid JSON.
	m.Save(got)
	m.Flush()

	data, err := st.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var probe []map[string]any
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("stored value is still invalid: %v", err)
	}
	if len(probe) != 3 {
		t.Errorf("stored %d records, want 3", len(probe))
	}
}

func TestSaveDebounceCoalesces(t *testing.T) {
	st := &memStorage{}
	m := newTestManager(st, 40*time.Millisecond)

	seq := testSeed()
	for i := 0; i < 10; i++ {
		m.Save(seq)
	}
	if n := st.writeCount(); n != 0 {
		t.Fatalf("writes before quiet period = %d, want 0", n)
	}

	time.Sleep(100 * time.Millisecond)
	if n := st.writeCount(); n != 1 {
		t.Errorf("writes after quiet period = %d, want 1", n)
	}
}

func TestFlushWritesPendingSynchronously(t *testing.T) {
	st := &memStorage{}
	m := newTestManager(st, time.Hour) // debounce far in the future

	m.Save(testSeed())
	m.Flush()

	if n := st.writeCount(); n != 1 {
		t.Fatalf("writes after Flush = %d, want 1", n)
	}

	// Idempotent: nothing pending, nothing written.
	m.Flush()
	if n := st.writeCount(); n != 1 {
		t.Errorf("writes after second Flush = %d, want 1", n)
	}
}

func TestQuotaExceededRetriesMinimized(t *testing.T) {
	st := &memStorage{maxBytes: 600}
	m := newTestManager(st, time.Millisecond)

	seq := []board.Instance{
		{ID: "notes-1", Kind: board.KindNotes, Config: board.Config{Text: strings.Repeat("n", 2000)}},
		{ID: "stock-1", Kind: board.KindStock, Config: board.Config{Ticker: "AAPL"}},
	}
	m.Save(seq)
	m.Flush()

	data, err := st.Read()
	if err != nil {
		t.Fatalf("nothing durable after minimized retry: %v", err)
	}
	got, err := DecodeLayout(data)
	if err != nil {
		t.Fatalf("DecodeLayout: %v", err)
	}
	if got[0].Config.Text != "" {
		t.Error("durable copy kept oversized notes text")
	}
	if got[1].Config.Ticker != "AAPL" {
		t.Error("durable copy lost ticker")
	}
}

// --- file storage ---

func TestFileStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir, 0)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	if _, err := fs.Read(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read before Write err = %v, want os.ErrNotExist", err)
	}

	if err := fs.Write([]byte(`[]`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := fs.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("Read = %q", data)
	}
}

func TestFileStorageQuota(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := fs.Write([]byte("too large")); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("oversized Write err = %v, want ErrQuotaExceeded", err)
	}
}

func TestManagerWithFileStorage(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	m := newTestManager(fs, time.Millisecond)

	seq := testSeed()
	m.Save(seq)
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := m.Load(); !reflect.DeepEqual(got, seq) {
		t.Errorf("Load after Close = %+v", got)
	}
}
