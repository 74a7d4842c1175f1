package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"files-manager-api/internal/infrastructure/storage"
)

func TestStore_PutOpenDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "files")
	s := New(root)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "abc.txt", []byte("Hello")))

	// folder is created lazily on the first write
	st, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, st.IsDir())

	rc, size, err := s.Open(ctx, "abc.txt")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(b))
	assert.EqualValues(t, 5, size)

	require.NoError(t, s.Delete(ctx, "abc.txt"))
	_, _, err = s.Open(ctx, "abc.txt")
	require.ErrorIs(t, err, storage.ErrContentNotFound)

	// deleting twice is fine
	require.NoError(t, s.Delete(ctx, "abc.txt"))
}

func TestStore_PutIsWriteOnce(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("one")))
	err := s.Put(ctx, "k", []byte("two"))
	require.ErrorIs(t, err, storage.ErrContentExists)

	rc, _, err := s.Open(ctx, "k")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "one", string(b))
}

func TestStore_RejectsPathKeys(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../x", "a/b", `a\b`} {
		require.Error(t, s.Put(ctx, key, []byte("x")), key)
		_, _, err := s.Open(ctx, key)
		require.ErrorIs(t, err, storage.ErrContentNotFound, key)
	}
}

func TestStore_PutCancelled(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Put(ctx, "k", []byte("x")), context.Canceled)
	_, err := os.Stat(filepath.Join(dir, "k"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_OpenUnreadable(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()

	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir"), 0o755))
	_, _, err := s.Open(ctx, "dir")
	require.ErrorIs(t, err, storage.ErrContentNotFound)

	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	require.NoError(t, s.Put(ctx, "locked", []byte("x")))
	require.NoError(t, os.Chmod(filepath.Join(dir, "locked"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(dir, "locked"), 0o644) })

	_, _, err = s.Open(ctx, "locked")
	require.ErrorIs(t, err, storage.ErrContentNotFound)
}
