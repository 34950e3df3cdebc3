package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}
	if want := filepath.Join(".cache", appName); !strings.HasSuffix(dir, want) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestConfigDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}

func TestFileCacheDirFromConfig(t *testing.T) {
	c, _ := newTestCLI(t)
	c.config.Cache.Dir = "/tmp/custom-cache"

	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/custom-cache" {
		t.Errorf("fileCacheDir() = %q, want configured dir", dir)
	}
}
