package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()

	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads/")
	require.NoError(t, err)
	return store, root
}

func TestSaveAndPublicURL(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	url, err := store.Save(ctx, "7/deck-page-1.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/7/deck-page-1.png", url)

	data, err := os.ReadFile(filepath.Join(root, "7", "deck-page-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestListAndRemove(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, "7/a.png", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "7/b.png", strings.NewReader("b"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "8/c.png", strings.NewReader("c"))
	require.NoError(t, err)

	paths, err := store.List(ctx, "7")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"7/a.png", "7/b.png"}, paths)

	require.NoError(t, store.Remove(ctx, "7/a.png", "7/b.png"))

	paths, err = store.List(ctx, "7")
	require.NoError(t, err)
	assert.Empty(t, paths)

	// Removing a missing path is not an error.
	assert.NoError(t, store.Remove(ctx, "7/a.png"))
}

func TestListMissingPrefix(t *testing.T) {
	store, _ := newTestStore(t)

	paths, err := store.List(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestRejectsEscapingPaths(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, "../outside.png", strings.NewReader("x"))
	assert.Error(t, err)

	err = store.Remove(ctx, "7/../../etc/passwd")
	assert.Error(t, err)
}
