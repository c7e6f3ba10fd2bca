package ui

import "testing"

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("GRIEVANCE_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when GRIEVANCE_DARK_MODE=1")
	}

	t.Setenv("GRIEVANCE_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when GRIEVANCE_DARK_MODE is unset")
	}
}

func TestDetectTheme_ColorFgBg(t *testing.T) {
	t.Setenv("GRIEVANCE_DARK_MODE", "")

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Error("expected dark theme for background 0")
	}

	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Error("expected light theme for background 15")
	}
}

func TestThemeFor(t *testing.T) {
	if !ThemeFor("dark").IsDark {
		t.Error("dark should be dark")
	}
	if ThemeFor("light").IsDark {
		t.Error("light should be light")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(LightTheme())
	if s.RenderDivider(0) != "" {
		t.Error("zero width divider should be empty")
	}
	if s.RenderDivider(5) == "" {
		t.Error("expected a divider")
	}
}

func TestStyles_ForClass(t *testing.T) {
	s := NewStyles(LightTheme())

	tests := []struct {
		class string
		label string
		body  string
	}{
		{"user-msg", s.UserLabel.Render("x"), s.UserMsg.Render("x")},
		{"bot-msg", s.BotLabel.Render("x"), s.BotMsg.Render("x")},
		{"system-msg", s.SystemMsg.Render("x"), s.SystemMsg.Render("x")},
		{"unknown", s.UserLabel.Render("x"), s.UserMsg.Render("x")},
	}
	for _, tt := range tests {
		st := s.ForClass(tt.class)
		if got := st.Label.Render("x"); got != tt.label {
			t.Errorf("ForClass(%q).Label rendered %q, want %q", tt.class, got, tt.label)
		}
		if got := st.Body.Render("x"); got != tt.body {
			t.Errorf("ForClass(%q).Body rendered %q, want %q", tt.class, got, tt.body)
		}
	}
}
