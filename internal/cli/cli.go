package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/cache"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
	"github.com/matzehuels/linkgraph/pkg/render"
	"github.com/matzehuels/linkgraph/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "linkgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Logs go to Logger.
	Out io.Writer

	configPath string
	config     Config
}

// New creates a new CLI instance with a default logger writing to w.
// Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.config.Cache.Prefix)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.config.Cache.Backend == backendNone {
		return cache.NewNullCache(), nil
	}
	if c.config.Cache.Backend == backendRedis {
		return cache.NewRedisCache(ctx, c.config.Cache.RedisURL, c.config.Cache.Prefix)
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) fileCacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Store Factory
// =============================================================================

// newStore opens the configured snapshot store.
func (c *CLI) newStore(ctx context.Context) (storage.Store, error) {
	cfg := c.config.Storage
	switch cfg.Backend {
	case backendMemory:
		return storage.NewMemoryStore(), nil
	case backendMongo:
		return storage.NewMongoStore(ctx, storage.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	default:
		dir := cfg.Dir
		if dir == "" {
			base, err := configDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "snapshots")
		}
		return storage.NewFileStore(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/linkgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) ([]string, error) {
	if s == "" {
		return []string{fallback}, nil
	}
	return render.ParseFormats(s)
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
