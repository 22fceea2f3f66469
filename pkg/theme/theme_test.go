package theme

import "testing"

func TestGetKnownThemes(t *testing.T) {
	for _, name := range []string{"default", "light", "solarized", "nord"} {
		th := Get(name)
		if th.Name != name {
			t.Errorf("Get(%q).Name = %q", name, th.Name)
		}
	}
}

func TestGetUnknownFallsBack(t *testing.T) {
	if th := Get("no-such-theme"); th.Name != "default" {
		t.Errorf("fallback theme = %q, want default", th.Name)
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	if th := Get("NORD"); th.Name != "nord" {
		t.Errorf("Get(NORD).Name = %q", th.Name)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) < 4 {
		t.Fatalf("Names() = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names not sorted: %v", names)
			break
		}
	}
}

func TestPalettesComplete(t *testing.T) {
	for _, name := range Names() {
		th := Get(name)
		fields := map[string]string{
			"Border":      th.Border,
			"BorderFocus": th.BorderFocus,
			"BorderDrag":  th.BorderDrag,
			"Placeholder": th.Placeholder,
			"TrendUp":     th.TrendUp,
			"TrendDown":   th.TrendDown,
		}
		for field, v := range fields {
			if v == "" {
				t.Errorf("theme %q missing %s", name, field)
			}
		}
	}
}

func TestSetCurrent(t *testing.T) {
	SetCurrent("solarized")
	defer SetCurrent("default")
	if Current().Name != "solarized" {
		t.Errorf("Current = %q", Current().Name)
	}
}
