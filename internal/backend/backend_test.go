package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendContract runs the behavior every Backend must share.
func backendContract(t *testing.T, b Backend, name string) {
	t.Helper()

	ok, err := b.Exists(name)
	require.NoError(t, err)
	assert.False(t, ok, "fresh namespace should not exist")

	_, err = b.Read(name)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Write(name, []byte(`{"a": 1}`)))

	ok, err = b.Exists(name)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := b.Read(name)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(data))

	require.NoError(t, b.Write(name, []byte(`{}`)))
	data, err = b.Read(name)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data), "write must overwrite, not append")
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	backendContract(t, b, "cfg.json")
	assert.Equal(t, 2, b.Writes("cfg.json"))
	assert.Equal(t, 0, b.Writes("other.json"))
}

func TestMemoryBackendCopiesData(t *testing.T) {
	b := NewMemoryBackend()
	src := []byte("abc")
	require.NoError(t, b.Write("n", src))
	src[0] = 'x'

	data, err := b.Read("n")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data[1] = 'y'
	again, err := b.Read("n")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryBackendMeta(t *testing.T) {
	b := NewMemoryBackend()
	meta := Meta{Revision: "rev-1", Seq: 3, Digest: "d"}
	require.NoError(t, WriteWithMeta(b, "n", []byte("{}"), meta))

	got, ok := b.Meta("n")
	require.True(t, ok)
	assert.Equal(t, meta, got)

	got, err := ReadMeta(b, "n")
	require.NoError(t, err)
	assert.Equal(t, meta, got)

	_, err = ReadMeta(b, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadMetaWithoutMetaReader(t *testing.T) {
	meta, err := ReadMeta(DefaultFileBackend(), filepath.Join(t.TempDir(), "x.json"))
	require.NoError(t, err)
	assert.Equal(t, Meta{}, meta)
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend("")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", b.Encoding())
	assert.Equal(t, "utf-8", DefaultFileBackend().Encoding())

	backendContract(t, b, filepath.Join(t.TempDir(), "cfg.json"))
}

func TestFileBackendCreatesParentDirectories(t *testing.T) {
	b, err := NewFileBackend("utf-8")
	require.NoError(t, err)

	name := filepath.Join(t.TempDir(), "nested", "dir", "cfg.json")
	require.NoError(t, b.Write(name, []byte("{}")))

	_, err = os.Stat(name)
	assert.NoError(t, err)
}

func TestFileBackendUTF16(t *testing.T) {
	b, err := NewFileBackend("utf-16le")
	require.NoError(t, err)

	name := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, b.Write(name, []byte(`{"name": "Ana"}`)))

	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, []byte{'{', 0, '"', 0}, raw[:4], "file should hold UTF-16LE code units")

	data, err := b.Read(name)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "Ana"}`, string(data))
}

func TestFileBackendLatin1(t *testing.T) {
	b, err := NewFileBackend("iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", b.Encoding())

	name := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, b.Write(name, []byte(`{"city": "Málaga"}`)))

	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "M\xe1laga")

	data, err := b.Read(name)
	require.NoError(t, err)
	assert.Equal(t, `{"city": "Málaga"}`, string(data))
}

func TestFileBackendUnknownEncoding(t *testing.T) {
	_, err := NewFileBackend("klingon")
	assert.Error(t, err)
}

func TestSQLiteBackend(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	backendContract(t, b, "cfg.json")
}

func TestSQLiteBackendMetaAndList(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	require.NoError(t, WriteWithMeta(b, "b.json", []byte("[]"), Meta{Revision: "rev-2", Seq: 2, Digest: "abc"}))
	require.NoError(t, b.Write("a.json", []byte("{}")))

	row, err := b.Load("b.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(row.Content))
	assert.Equal(t, Meta{Revision: "rev-2", Seq: 2, Digest: "abc"}, row.Meta)

	meta, err := ReadMeta(b, "b.json")
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Seq)

	row, err = b.Load("a.json")
	require.NoError(t, err)
	assert.Len(t, row.Meta.Digest, 64, "missing digest is derived from content")

	names, err := b.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)
}

func TestSQLiteBackendReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	b1, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, b1.Write("cfg.json", []byte(`{"x": true}`)))
	require.NoError(t, b1.Close())

	b2, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { b2.Close() })

	data, err := b2.Read("cfg.json")
	require.NoError(t, err)
	assert.Equal(t, `{"x": true}`, string(data))

	var version int
	require.NoError(t, b2.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}
