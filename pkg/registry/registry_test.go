package registry

import (
	"testing"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

func TestCatalogCoversEveryKind(t *testing.T) {
	for _, k := range board.Kinds() {
		e, ok := Get(k)
		if !ok {
			t.Errorf("kind %q missing from catalog", k)
			continue
		}
		if e.Name == "" || e.Icon == "" || e.DefaultConfig == nil {
			t.Errorf("kind %q entry incomplete: %+v", k, e)
		}
	}
}

func TestEntriesOrderMatchesKinds(t *testing.T) {
	entries := Entries()
	kinds := board.Kinds()
	if len(entries) != len(kinds) {
		t.Fatalf("len(Entries) = %d, want %d", len(entries), len(kinds))
	}
	for i, e := range entries {
		if e.Kind != kinds[i] {
			t.Errorf("Entries[%d].Kind = %q, want %q", i, e.Kind, kinds[i])
		}
	}
}

func TestNewInstanceAppliesDefaultConfig(t *testing.T) {
	in := NewInstance(board.KindGitHub)
	if in.Config.Username != DefaultGitHubUsername {
		t.Errorf("Username = %q, want %q", in.Config.Username, DefaultGitHubUsername)
	}

	in = NewInstance(board.KindStockTable)
	if len(in.Config.Tickers) == 0 {
		t.Error("stock-table default config has no tickers")
	}
}

func TestDefaultSeedShape(t *testing.T) {
	seed := DefaultSeed()
	if len(seed) != 3 {
		t.Fatalf("len(seed) = %d, want 3", len(seed))
	}
	want := []board.Kind{board.KindStock, board.KindWeather, board.KindNotes}
	for i, in := range seed {
		if in.Kind != want[i] {
			t.Errorf("seed[%d].Kind = %q, want %q", i, in.Kind, want[i])
		}
		if in.ID == "" {
			t.Errorf("seed[%d] has empty id", i)
		}
	}
}
