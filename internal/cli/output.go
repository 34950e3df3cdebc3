package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/linkgraph/pkg/render"
)

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is empty.
func (c *CLI) openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{c.Out}, nil
	}
	return os.Create(path)
}

// basePath derives the output base name: output with any known format
// extension stripped, or input without its extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if render.ValidFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes rendered artifacts and returns the paths written.
//
// A single format goes to output, or to stdout when output is empty and
// toStdout is set. Multiple formats are written next to each other as
// <base>.<format>.
func (c *CLI) writeArtifacts(artifacts map[string][]byte, formats []string, output, input string, toStdout bool) ([]string, error) {
	if len(formats) == 1 && (output != "" || toStdout) {
		if err := c.writeFile(output, artifacts[formats[0]]); err != nil {
			return nil, err
		}
		if output == "" {
			return nil, nil
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := fmt.Sprintf("%s.%s", base, f)
		if err := c.writeFile(path, artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (c *CLI) writeFile(path string, data []byte) error {
	out, err := c.openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// textFormat reports whether formats is a single format that is safe to
// write to a terminal.
func textFormat(formats []string) bool {
	return len(formats) == 1 && !render.NeedsRSVG(formats[0])
}
