package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strconv"
	"strings"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	return slices.Contains(Formats, f)
}

// ParseFormats splits a comma-separated list, trimming spaces and dropping
// duplicates. Unknown formats are an error.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if !ValidFormat(f) {
			return nil, fmt.Errorf("unknown format %q (supported: %s)", f, strings.Join(Formats, ", "))
		}
		out = append(out, f)
	}
	return out, nil
}

// NeedsRSVG reports whether producing format f requires rsvg-convert.
func NeedsRSVG(f string) bool {
	return f == FormatPDF || f == FormatPNG
}

// ToPDF converts SVG to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "-f", "pdf")
}

// ToPNG converts SVG to PNG at the given scale (2.0 for high-DPI displays).
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	zoom := strconv.FormatFloat(scale, 'f', -1, 64)
	return rsvgConvert(ctx, svg, "-f", "png", "-z", zoom)
}

func rsvgConvert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath("rsvg-convert")
	if err != nil {
		return nil, fmt.Errorf("rsvg-convert not found (install librsvg): %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("rsvg-convert: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("rsvg-convert: %w", err)
	}
	return stdout.Bytes(), nil
}
