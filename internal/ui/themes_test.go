package ui

import (
	"os"
	"slices"
	"testing"
)

func restoreTheme(t *testing.T) {
	t.Helper()
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })
}

// unsetNoColor clears NO_COLOR for the duration of the test.
func unsetNoColor(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
}

func TestSetTheme(t *testing.T) {
	restoreTheme(t)
	tests := []struct {
		name  string
		want  string
		known bool
	}{
		{"dark", "dark", true},
		{"light", "light", true},
		{"none", "none", true},
		{"unknown", "dark", false},
		{"", "dark", false},
	}
	for _, tt := range tests {
		if known := SetTheme(tt.name); known != tt.known {
			t.Errorf("SetTheme(%q) = %v, want %v", tt.name, known, tt.known)
		}
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) activated %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestThemeNames(t *testing.T) {
	if got, want := ThemeNames(), []string{"dark", "light", "none"}; !slices.Equal(got, want) {
		t.Errorf("ThemeNames() = %v, want %v", got, want)
	}
}

func TestInitTheme(t *testing.T) {
	restoreTheme(t)
	unsetNoColor(t)

	InitTheme(true, "light")
	if got := GetCurrentTheme(); got.Name != "none" || got.Primary != "" {
		t.Errorf("noColor kept theme %q", got.Name)
	}
	InitTheme(false, "light")
	if got := GetCurrentTheme().Name; got != "light" {
		t.Errorf("theme = %q, want light", got)
	}
	InitTheme(false, "")
	if got := GetCurrentTheme().Name; got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}
}

func TestInitThemeNoColorEnv(t *testing.T) {
	restoreTheme(t)
	t.Setenv("NO_COLOR", "1")

	InitTheme(false, "light")
	if got := GetCurrentTheme().Name; got != "none" {
		t.Errorf("NO_COLOR ignored: theme = %q", got)
	}
}

func TestColorFunctions(t *testing.T) {
	restoreTheme(t)
	SetCurrentTheme(DarkTheme)
	pairs := []struct {
		got, want string
	}{
		{ColorReset(), DarkTheme.Reset},
		{ColorRed(), DarkTheme.Error},
		{ColorGreen(), DarkTheme.Success},
		{ColorYellow(), DarkTheme.Warning},
		{ColorBlue(), DarkTheme.Primary},
		{ColorMagenta(), DarkTheme.Info},
		{ColorCyan(), DarkTheme.Secondary},
		{ColorBold(), DarkTheme.Bold},
		{ColorUnderline(), DarkTheme.Underline},
	}
	for i, p := range pairs {
		if p.got != p.want {
			t.Errorf("pair %d: got %q, want %q", i, p.got, p.want)
		}
	}

	SetCurrentTheme(NoColorTheme)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("NoColorTheme produced escape codes")
	}
}
