package backend

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	namespace   TEXT PRIMARY KEY,
	content     BLOB NOT NULL,
	digest      TEXT NOT NULL DEFAULT '',
	revision    TEXT NOT NULL DEFAULT '',
	updated_seq INTEGER NOT NULL DEFAULT 0
);
`

// Schema version tracking:
// 0 - Initial schema (namespace, content)
// 1 - Added digest, revision and updated_seq columns
const currentSchemaVersion = 1

// SQLiteBackend keeps every namespace as one row of a single SQLite file.
type SQLiteBackend struct {
	db *sql.DB
}

// Row is a stored document with its write metadata.
type Row struct {
	Namespace string
	Content   []byte
	Meta      Meta
}

// OpenSQLite creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the table if it doesn't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the metadata columns to databases created before v1.
// Fresh databases already have them from schemaSQL.
func migrateToV1(db *sql.DB) error {
	have := map[string]bool{}
	rows, err := db.Query("SELECT name FROM pragma_table_info('documents')")
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("migrate to v1: %w", err)
		}
		have[name] = true
	}
	rows.Close()

	columns := []struct{ name, ddl string }{
		{"digest", "ALTER TABLE documents ADD COLUMN digest TEXT NOT NULL DEFAULT ''"},
		{"revision", "ALTER TABLE documents ADD COLUMN revision TEXT NOT NULL DEFAULT ''"},
		{"updated_seq", "ALTER TABLE documents ADD COLUMN updated_seq INTEGER NOT NULL DEFAULT 0"},
	}
	for _, col := range columns {
		if have[col.name] {
			continue
		}
		if _, err := db.Exec(col.ddl); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	return nil
}

// Exists reports whether a row exists for the namespace.
func (s *SQLiteBackend) Exists(name string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM documents WHERE namespace = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("backend: exists %s: %w", name, err)
	}
	return true, nil
}

// Read returns the namespace's content.
func (s *SQLiteBackend) Read(name string) ([]byte, error) {
	row, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	return row.Content, nil
}

// Load returns the namespace's content together with its write metadata.
func (s *SQLiteBackend) Load(name string) (*Row, error) {
	row := &Row{Namespace: name}
	err := s.db.QueryRow(`
		SELECT content, digest, revision, updated_seq
		FROM documents WHERE namespace = ?
	`, name).Scan(&row.Content, &row.Meta.Digest, &row.Meta.Revision, &row.Meta.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("backend: read %s: %w", name, err)
	}
	return row, nil
}

// ReadMeta implements MetaReader.
func (s *SQLiteBackend) ReadMeta(name string) (Meta, error) {
	row, err := s.Load(name)
	if err != nil {
		return Meta{}, err
	}
	return row.Meta, nil
}

// Write replaces the namespace's content without revision metadata.
func (s *SQLiteBackend) Write(name string, data []byte) error {
	return s.WriteMeta(name, data, Meta{})
}

// WriteMeta upserts the namespace's content and metadata. A missing digest
// is filled with the SHA-256 of the content bytes.
func (s *SQLiteBackend) WriteMeta(name string, data []byte, meta Meta) error {
	if meta.Digest == "" {
		sum := sha256.Sum256(data)
		meta.Digest = hex.EncodeToString(sum[:])
	}
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.Exec(`
		INSERT INTO documents (namespace, content, digest, revision, updated_seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			content = excluded.content,
			digest = excluded.digest,
			revision = excluded.revision,
			updated_seq = excluded.updated_seq
	`, name, data, meta.Digest, meta.Revision, meta.Seq)
	if err != nil {
		return fmt.Errorf("backend: write %s: %w", name, err)
	}
	return nil
}

// List returns all stored namespaces in lexical order.
func (s *SQLiteBackend) List() ([]string, error) {
	rows, err := s.db.Query("SELECT namespace FROM documents ORDER BY namespace ASC")
	if err != nil {
		return nil, fmt.Errorf("backend: list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("backend: list: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
