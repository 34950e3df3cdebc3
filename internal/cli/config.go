package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	lgerrors "github.com/matzehuels/linkgraph/pkg/errors"
)

// configFileName is looked up in the working directory, then in the XDG
// config directory.
const configFileName = "linkgraph.toml"

// Backend names.
const (
	backendNone   = "none"
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
)

// Config is the linkgraph.toml file.
type Config struct {
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`   // file (default), redis, none
	Dir      string `toml:"dir"`       // file backend; default XDG cache dir
	RedisURL string `toml:"redis_url"` // redis backend
	Prefix   string `toml:"prefix"`    // key prefix for shared backends
}

// StorageConfig selects the snapshot store.
type StorageConfig struct {
	Backend    string `toml:"backend"` // file (default), memory, mongo
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures `linkgraph serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout duration `toml:"request_timeout"`
}

// duration decodes TOML strings such as "30s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Cache:   CacheConfig{Backend: backendFile},
		Storage: StorageConfig{Backend: backendFile, Database: appName},
		Server:  ServerConfig{Addr: "127.0.0.1:8080", RequestTimeout: duration{30 * time.Second}},
	}
}

// loadConfig reads the config at path. An empty path searches the default
// locations and falls back to defaults when none exists; an explicit path
// must exist.
func loadConfig(path string) (Config, string, error) {
	cfg := defaultConfig()

	candidates := []string{path}
	if path == "" {
		candidates = []string{configFileName}
		if dir, err := configDir(); err == nil {
			candidates = append(candidates, filepath.Join(dir, "config.toml"))
		}
	}

	for _, p := range candidates {
		md, err := toml.DecodeFile(p, &cfg)
		if errors.Is(err, fs.ErrNotExist) && path == "" {
			continue
		}
		if err != nil {
			return cfg, p, lgerrors.Wrap(lgerrors.ErrCodeInvalidConfig, err, "read config %s", p)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, p, lgerrors.New(lgerrors.ErrCodeInvalidConfig, "%s: unknown key %s", p, undecoded[0])
		}
		return cfg, p, cfg.validate()
	}
	return cfg, "", cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if err := lgerrors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return fmt.Errorf("cache.redis_url: %w", err)
		}
	default:
		return lgerrors.New(lgerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Storage.Backend {
	case backendFile, backendMemory:
	case backendMongo:
		if err := lgerrors.ValidateURL(c.Storage.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return fmt.Errorf("storage.mongo_uri: %w", err)
		}
		if c.Storage.Database == "" {
			return lgerrors.New(lgerrors.ErrCodeInvalidConfig, "storage.database is required for mongo")
		}
	default:
		return lgerrors.New(lgerrors.ErrCodeInvalidConfig, "unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// configDir returns the XDG config directory (~/.config/linkgraph/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
