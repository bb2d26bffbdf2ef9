// Package config loads Brickyard's TOML configuration.
//
// The configuration file lives at $XDG_CONFIG_HOME/brickyard/config.toml
// (falling back to ~/.config/brickyard/config.toml). A missing file is not an
// error: [Load] returns [Default] values. A handful of BRICKYARD_* environment
// variables override file values so containers can be configured without a
// file.
//
// # Example
//
//	[storage]
//	backend = "redis"          # memory, file, sqlite, redis or mongo
//	key = "lego-build"
//	redis_addr = "localhost:6379"
//
//	[editor]
//	catalog = "~/bricks/palette.toml"
//	history_limit = 100
//
//	[server]
//	addr = ":8080"
package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/brickyard/pkg/errors"
)

// appName is the application name used for directories.
const appName = "brickyard"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// DefaultStorageKey is the fixed key under which the build is saved.
const DefaultStorageKey = "lego-build"

// Config is the complete configuration.
type Config struct {
	Storage Storage `toml:"storage"`
	Editor  Editor  `toml:"editor"`
	Server  Server  `toml:"server"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend string `toml:"backend"`
	Key     string `toml:"key"`

	// Dir is the FileStore directory. Empty means the XDG data directory.
	Dir string `toml:"dir"`

	SQLitePath string `toml:"sqlite_path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Editor configures the engine.
type Editor struct {
	// Catalog is a palette file (.toml, .yaml). Empty means the built-in palette.
	Catalog      string `toml:"catalog"`
	HistoryLimit int    `toml:"history_limit"`
	DefaultType  string `toml:"default_type"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration that decodes from strings such as "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration: file storage under the XDG
// data directory, the built-in palette, 50 undo steps and the API on :8080.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend:         BackendFile,
			Key:             DefaultStorageKey,
			RedisAddr:       "localhost:6379",
			RedisPrefix:     appName + ":",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "builds",
		},
		Editor: Editor{
			HistoryLimit: 50,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
		},
	}
}

// Load reads the configuration at path on top of Default and then applies
// environment overrides. An empty path means DefaultPath; a missing file at
// the default path is silently ignored, a missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	default:
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Validate checks backend names, the storage key and numeric ranges.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown storage backend %q", c.Storage.Backend)
	}
	if err := errs.ValidateStorageKey(c.Storage.Key); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "storage.key")
	}
	if c.Editor.HistoryLimit < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "editor.history_limit must not be negative")
	}
	if c.Storage.RedisDB < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "storage.redis_db must not be negative")
	}
	return nil
}

// applyEnv overrides selected values from BRICKYARD_* variables.
func (c *Config) applyEnv() {
	setString(&c.Storage.Backend, "BRICKYARD_STORAGE")
	setString(&c.Storage.Key, "BRICKYARD_STORAGE_KEY")
	setString(&c.Storage.Dir, "BRICKYARD_STORAGE_DIR")
	setString(&c.Storage.SQLitePath, "BRICKYARD_SQLITE_PATH")
	setString(&c.Storage.RedisAddr, "BRICKYARD_REDIS_ADDR")
	setString(&c.Storage.RedisPassword, "BRICKYARD_REDIS_PASSWORD")
	setString(&c.Storage.MongoURI, "BRICKYARD_MONGO_URI")
	setString(&c.Editor.Catalog, "BRICKYARD_CATALOG")
	setString(&c.Server.Addr, "BRICKYARD_ADDR")
	if v := os.Getenv("BRICKYARD_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Editor.HistoryLimit = n
		}
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location using the XDG standard
// (~/.config/brickyard/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/brickyard/). File and SQLite storage default to it.
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// Encode writes cfg as TOML. Used by "config show".
func Encode(cfg Config, w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}
