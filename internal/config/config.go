// Package config loads pathstore settings and opens a Registry from them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pathstore/internal/backend"
	"github.com/roach88/pathstore/internal/codec"
	"github.com/roach88/pathstore/internal/store"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the settings shared by every command.
type Config struct {
	// Backend is "file" (one file per namespace) or "sqlite".
	Backend string `yaml:"backend"`

	// DB is the SQLite database path. Only used by the sqlite backend.
	DB string `yaml:"db"`

	// Encoding is the text encoding of backing files.
	Encoding string `yaml:"encoding"`

	// Codec forces one format for every namespace. Empty picks the format
	// from the namespace's extension.
	Codec string `yaml:"codec,omitempty"`

	// StrictKinds rejects resolving a path with a kind other than the one
	// it was first resolved with.
	StrictKinds bool `yaml:"strict_kinds"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when no file or flag overrides them.
func Default() Config {
	return Config{
		Backend:  BackendFile,
		DB:       "pathstore.db",
		Encoding: backend.DefaultEncoding,
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of Default.
// Unknown fields are rejected. A relative DB path is resolved against the
// file's directory.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.DB != "" && !filepath.IsAbs(cfg.DB) {
		cfg.DB = filepath.Join(filepath.Dir(path), cfg.DB)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against the values the stack accepts.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile:
	case BackendSQLite:
		if c.DB == "" {
			return fmt.Errorf("db is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Backend)
	}

	if _, err := backend.NewFileBackend(c.Encoding); err != nil {
		return err
	}
	if c.Codec != "" {
		if _, err := codec.ByName(c.Codec); err != nil {
			return err
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return level, nil
}

// Open validates the config and builds a Registry from it. The caller owns
// the registry and must Close it.
func (c Config) Open(logger *slog.Logger, extra ...store.Option) (*store.Registry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var b backend.Backend
	switch c.Backend {
	case BackendSQLite:
		db, err := backend.OpenSQLite(c.DB)
		if err != nil {
			return nil, err
		}
		b = db
	default:
		fb, err := backend.NewFileBackend(c.Encoding)
		if err != nil {
			return nil, err
		}
		b = fb
	}

	opts := []store.Option{
		store.WithBackend(b),
		store.WithStrictKinds(c.StrictKinds),
		store.WithLogger(logger),
	}
	if c.Codec != "" {
		cd, err := codec.ByName(c.Codec)
		if err != nil {
			b.Close()
			return nil, err
		}
		opts = append(opts, store.WithCodec(cd))
	}
	opts = append(opts, extra...)

	logger.Debug("opening registry", "backend", c.Backend, "encoding", c.Encoding, "strict_kinds", c.StrictKinds)
	return store.NewRegistry(opts...), nil
}
