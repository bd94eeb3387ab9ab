package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pathstore/internal/backend"
	"github.com/roach88/pathstore/internal/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pathstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
backend: sqlite
db: data/store.db
encoding: utf-16le
codec: yaml
strict_kinds: true
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Backend:     BackendSQLite,
		DB:          filepath.Join(filepath.Dir(path), "data", "store.db"),
		Encoding:    "utf-16le",
		Codec:       "yaml",
		StrictKinds: true,
		LogLevel:    "debug",
	}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, "strict_kinds: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.StrictKinds = true
	want.DB = filepath.Join(filepath.Dir(path), "pathstore.db")
	assert.Equal(t, want, cfg)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing set\n"))
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Backend)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown field", "backned: file\n", "field backned not found"},
		{"bad backend", "backend: redis\n", "backend must be"},
		{"bad encoding", "encoding: klingon\n", "unknown text encoding"},
		{"bad codec", "codec: xml\n", "unknown format"},
		{"bad log level", "log_level: loud\n", "log_level must be"},
		{"sqlite without db", "backend: sqlite\ndb: \"\"\n", "db is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestOpenFileBackend(t *testing.T) {
	cfg := Default()
	cfg.Encoding = "iso-8859-1"

	r, err := cfg.Open(nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	ns := filepath.Join(t.TempDir(), "cfg.json")
	city, err := r.Store(ns, "city")
	require.NoError(t, err)
	require.NoError(t, city.Set("Málaga", "name"))

	raw, err := os.ReadFile(ns)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "M\xe1laga", "file is written in the configured encoding")
}

func TestOpenSQLiteBackend(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendSQLite
	cfg.DB = filepath.Join(t.TempDir(), "store.db")
	cfg.Codec = "yaml"
	cfg.StrictKinds = true

	r, err := cfg.Open(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	require.NoError(t, err)

	_, err = r.Store("cfg", "user")
	require.NoError(t, err)
	_, err = r.ListStore("cfg", "user")
	assert.ErrorIs(t, err, store.ErrInvalidPath, "strict kinds come from the config")
	require.NoError(t, r.Close())

	db, err := backend.OpenSQLite(cfg.DB)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	data, err := db.Read("cfg")
	require.NoError(t, err)
	assert.Equal(t, "user: {}\n", string(data))
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Backend = "redis"
	_, err := cfg.Open(nil)
	assert.Error(t, err)
}
