package catalog

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Amazon Studios", "amazonstudios"},
		{"amazon-studios!!", "amazonstudios"},
		{"A24", "a24"},
		{"a24", "a24"},
		{"Studio Ghibli ", "studioghibli"},
		{"HBO | Max", "hbomax"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{"Amazon Studios", "amazon-studios!!", "Warner Bros."}
	for _, input := range inputs {
		once := NormalizeName(input)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", input, twice, once)
		}
	}
}

func TestHasDisplayableImage(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"valid path", "/abc123.jpg", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"literal null", "null", false},
		{"literal NULL", "NULL", false},
		{"literal undefined", "undefined", false},
		{"literal Undefined padded", " Undefined ", false},
		{"path containing null substring", "/null-island.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasDisplayableImage(tt.path); got != tt.want {
				t.Errorf("HasDisplayableImage(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
