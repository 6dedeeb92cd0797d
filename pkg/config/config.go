// Package config loads the treemap configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/treemap/config.toml
// (~/.config/treemap/config.toml when XDG_CONFIG_HOME is unset). Every key
// is optional; [Default] supplies the values a missing file or key gets.
//
//	width  = 1200
//	height = 800
//
//	[cache]
//	backend   = "redis"               # file | redis | none
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "72h"
//
//	[session]
//	backend  = "mongo"                # file | mongo
//	uri      = "mongodb://localhost:27017"
//	database = "treemap"
//
//	[papers]
//	root_name = "SIGCSE"
//	by_year   = true
//
//	[server]
//	addr = ":8080"
package config

import (
	"bytes"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treemap/pkg/cache"
	errs "github.com/matzehuels/treemap/pkg/errors"
)

// AppName names the config, cache and data directories.
const AppName = "treemap"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Session backends.
const (
	SessionFile  = "file"
	SessionMongo = "mongo"
)

// Config is the parsed configuration file.
type Config struct {
	Width   int           `toml:"width"`
	Height  int           `toml:"height"`
	Cache   CacheConfig   `toml:"cache"`
	Session SessionConfig `toml:"session"`
	Papers  PapersConfig  `toml:"papers"`
	Server  ServerConfig  `toml:"server"`
}

// CacheConfig selects where built trees and rendered artifacts are cached.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir,omitempty"`
	RedisURL string   `toml:"redis_url,omitempty"`
	TTL      Duration `toml:"ttl"`
}

// SessionConfig selects where edit sessions are saved.
type SessionConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir,omitempty"`
	URI      string `toml:"uri,omitempty"`
	Database string `toml:"database,omitempty"`
}

// PapersConfig holds defaults for the papers command.
type PapersConfig struct {
	RootName string `toml:"root_name"`
	ByYear   bool   `toml:"by_year"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("72h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Width:   800,
		Height:  600,
		Cache:   CacheConfig{Backend: CacheFile, TTL: Duration{cache.TTLTree}},
		Session: SessionConfig{Backend: SessionFile, Database: AppName},
		Papers:  PapersConfig{RootName: "CS1"},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load reads the file at path on top of [Default]. An empty path means
// [DefaultPath], and a missing file there is not an error. Unknown keys
// and invalid values are INVALID_CONFIG errors.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, iofs.ErrNotExist) {
		if explicit {
			return nil, errs.New(errs.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names, the viewport and backend-specific
// settings.
func (c *Config) Validate() error {
	if err := errs.ValidateDimensions(c.Width, c.Height); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "width/height")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	switch c.Session.Backend {
	case SessionFile:
	case SessionMongo:
		if c.Session.URI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "session.uri is required for the mongo backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown session backend %q", c.Session.Backend)
	}
	return nil
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Write saves c to path, creating parent directories.
func (c *Config) Write(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create config dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}
