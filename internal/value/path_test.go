package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() map[string]any {
	return map[string]any{
		"user": map[string]any{
			"name": "Ana",
			"tags": []any{"admin", "ops"},
		},
		"count": int64(3),
	}
}

func TestWalk(t *testing.T) {
	root := sampleTree()

	got, err := Walk(root, []any{"user", "name"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)

	got, err = Walk(root, []any{"user", "tags", 1})
	require.NoError(t, err)
	assert.Equal(t, "ops", got)

	got, err = Walk(root, []any{"user", "tags", -1})
	require.NoError(t, err)
	assert.Equal(t, "ops", got)

	got, err = Walk(root, nil)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestWalkErrors(t *testing.T) {
	root := sampleTree()

	tests := []struct {
		name string
		path []any
		want error
	}{
		{"missing key", []any{"missing"}, ErrKeyNotFound},
		{"missing nested key", []any{"user", "email"}, ErrKeyNotFound},
		{"index past end", []any{"user", "tags", 2}, ErrIndexOutOfRange},
		{"negative past start", []any{"user", "tags", -3}, ErrIndexOutOfRange},
		{"key on sequence", []any{"user", "tags", "first"}, ErrTypeMismatch},
		{"descend into scalar", []any{"count", "x"}, ErrTypeMismatch},
		{"index on mapping", []any{0}, ErrKeyNotFound},
		{"bad segment type", []any{"user", 1.5}, ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Walk(root, tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSetAt(t *testing.T) {
	root, err := SetAt(sampleTree(), []any{"user", "email"}, "ana@example.com")
	require.NoError(t, err)

	got, err := Walk(root, []any{"user", "email"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got)

	root, err = SetAt(root, []any{"user", "tags", 0}, "root")
	require.NoError(t, err)
	got, err = Walk(root, []any{"user", "tags"})
	require.NoError(t, err)
	assert.Equal(t, []any{"root", "ops"}, got)
}

func TestSetAtErrors(t *testing.T) {
	_, err := SetAt(sampleTree(), nil, "x")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = SetAt(sampleTree(), []any{"missing", "name"}, "x")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = SetAt(sampleTree(), []any{"user", "tags", 5}, "x")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = SetAt(sampleTree(), []any{"count", "x"}, "x")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = SetAt(sampleTree(), []any{"user", 3}, "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSetAtOnSequenceRoot(t *testing.T) {
	root, err := SetAt([]any{"a", "b"}, []any{1}, "z")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "z"}, root)
}

func TestDeleteAt(t *testing.T) {
	root, err := DeleteAt(sampleTree(), []any{"user", "name"})
	require.NoError(t, err)
	assert.NotContains(t, root.(map[string]any)["user"], "name")

	root, err = DeleteAt(root, []any{"user", "tags", 0})
	require.NoError(t, err)
	got, err := Walk(root, []any{"user", "tags"})
	require.NoError(t, err)
	assert.Equal(t, []any{"ops"}, got)
}

func TestDeleteAtSequenceRoot(t *testing.T) {
	root, err := DeleteAt([]any{"a", "b", "c"}, []any{-1})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, root)
}

func TestDeleteAtErrors(t *testing.T) {
	_, err := DeleteAt(sampleTree(), nil)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = DeleteAt(sampleTree(), []any{"user", "email"})
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = DeleteAt(sampleTree(), []any{"user", "tags", 9})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAppendAt(t *testing.T) {
	root, err := AppendAt(sampleTree(), []any{"user", "tags"}, "dev")
	require.NoError(t, err)

	got, err := Walk(root, []any{"user", "tags"})
	require.NoError(t, err)
	assert.Equal(t, []any{"admin", "ops", "dev"}, got)
}

func TestAppendAtRoot(t *testing.T) {
	root, err := AppendAt([]any{}, nil, int64(1))
	require.NoError(t, err)
	root, err = AppendAt(root, nil, int64(2))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, root)
}

func TestAppendAtNestedSequences(t *testing.T) {
	root := map[string]any{"grid": []any{[]any{}, []any{"x"}}}

	out, err := AppendAt(root, []any{"grid", 0}, "a")
	require.NoError(t, err)

	got, err := Walk(out, []any{"grid"})
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"a"}, []any{"x"}}, got)
}

func TestAppendAtTypeMismatch(t *testing.T) {
	_, err := AppendAt(sampleTree(), []any{"user"}, "x")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestContainsAt(t *testing.T) {
	root := sampleTree()

	ok, err := ContainsAt(root, []any{"user", "tags"}, "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ContainsAt(root, []any{"user", "tags"}, "dev")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ContainsAt(root, []any{"user"}, "name")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ContainsAt(root, []any{"user"}, int64(1))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ContainsAt(root, []any{"user", "name"}, "An")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = ContainsAt(root, []any{"count"}, "x")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ContainsAt(root, []any{"nope"}, "x")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestContainsAtNumbers(t *testing.T) {
	ok, err := ContainsAt([]any{int64(1), 2.5}, nil, float64(1))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "<root>", FormatPath(nil))
	assert.Equal(t, "user.tags[0]", FormatPath([]any{"user", "tags", 0}))
	assert.Equal(t, "[2].name", FormatPath([]any{2, "name"}))
}

func TestJoinDoesNotAlias(t *testing.T) {
	prefix := make([]any, 1, 4)
	prefix[0] = "a"

	first := Join(prefix, "b")
	second := Join(prefix, "c")

	assert.Equal(t, []any{"a", "b"}, first)
	assert.Equal(t, []any{"a", "c"}, second)
	assert.Equal(t, []any{"a", "b"}, Keys("a", "b"))
}
