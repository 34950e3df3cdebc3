package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/linkgraph/pkg/cache"
)

func TestCacheClear(t *testing.T) {
	c, out := newTestCLI(t)
	if err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}

	ch, err := c.newCache(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if err := ch.Set(context.Background(), key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if err := execute(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 3 cached entries") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := execute(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCacheClearNonFileBackend(t *testing.T) {
	c, out := newTestCLI(t)
	writeTestFile(t, configFileName, "[cache]\nbackend = \"none\"\n")

	if err := execute(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "cannot be cleared") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCachePath(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	want, _ := cacheDir()
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestNewCacheSelection(t *testing.T) {
	c, _ := newTestCLI(t)

	ch, err := c.newCache(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("noCache gave %T, want NullCache", ch)
	}

	ch, err = c.newCache(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("default backend gave %T, want *FileCache", ch)
	}
}
