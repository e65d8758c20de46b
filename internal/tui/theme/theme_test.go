package theme

import "testing"

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mocha", "mocha"},
		{"FRAPPE", "frappe"},
		{"latte", "latte"},
		{"", "mocha"},
		{"no-such-theme", "mocha"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			th, err := Load(tc.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if th.Name != tc.want {
				t.Errorf("got theme %q, want %q", th.Name, tc.want)
			}
			if th.Bg == "" || th.Fg == "" || th.Accent == "" {
				t.Error("theme is missing base colors")
			}
			if th.Pending == "" || th.Progress == "" || th.Review == "" || th.Delivered == "" {
				t.Error("theme is missing status colors")
			}
		})
	}
}

func TestModalFallbacks(t *testing.T) {
	th, err := Load("mocha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := th.Modal()
	if m.BaseBg != th.BgHighlight {
		t.Errorf("got modal bg %q, want theme highlight %q", m.BaseBg, th.BgHighlight)
	}
	if m.ModalBorder != th.Accent {
		t.Errorf("got modal border %q, want accent %q", m.ModalBorder, th.Accent)
	}
}

func TestAvailable(t *testing.T) {
	for _, name := range Available() {
		if !IsAvailable(name) {
			t.Errorf("theme %q listed but not available", name)
		}
	}
	if IsAvailable("solarized") {
		t.Error("unexpected theme reported available")
	}
}
