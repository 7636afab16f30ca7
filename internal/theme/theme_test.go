package theme

import "testing"

func TestNormalizeThemeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: DraculaName},
		{input: "dracula", expected: DraculaName},
		{input: "dark", expected: DraculaName},
		{input: "Clean-Light", expected: CleanLightName},
		{input: "light", expected: CleanLightName},
		{input: "nope", expected: ""},
	}
	for _, tt := range tests {
		if got := NormalizeThemeName(tt.input); got != tt.expected {
			t.Errorf("NormalizeThemeName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestByNameFallsBackToDracula(t *testing.T) {
	if ByName("unknown") == nil {
		t.Fatal("expected a theme")
	}
	if ByName(CleanLightName).Accent == ByName(DraculaName).Accent {
		t.Fatal("expected distinct palettes")
	}
}
