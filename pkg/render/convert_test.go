package render

import (
	"slices"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"svg", []string{"svg"}, false},
		{"svg, DOT ,svg", []string{"svg", "dot"}, false},
		{"", nil, false},
		{"json,,png", []string{"json", "png"}, false},
		{"svg,gif", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNeedsRSVG(t *testing.T) {
	for _, f := range Formats {
		want := f == FormatPDF || f == FormatPNG
		if got := NeedsRSVG(f); got != want {
			t.Errorf("NeedsRSVG(%q) = %v, want %v", f, got, want)
		}
	}
}
