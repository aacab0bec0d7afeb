package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStoreSaveImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewMediaStore(dir)
	require.NoError(t, err)

	url, err := store.SaveImage("a white rabbit", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, "images", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestMediaStoreSamePromptSameURL(t *testing.T) {
	store, err := NewMediaStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.SaveImage("a white rabbit", []byte("original"))
	require.NoError(t, err)
	second, err := store.SaveImage("a white rabbit", []byte("different bytes"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMediaStoreDoesNotOverwriteExisting(t *testing.T) {
	dir := t.TempDir()
	store, err := NewMediaStore(dir)
	require.NoError(t, err)

	url, err := store.SaveImage("prompt", []byte("original"))
	require.NoError(t, err)
	_, err = store.SaveImage("prompt", []byte("replacement"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "images", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
}

func TestMediaStoreSaveAudio(t *testing.T) {
	store, err := NewMediaStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.SaveAudio("once upon a time", []byte("mp3-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/audio/"))
	assert.True(t, strings.HasSuffix(url, ".mp3"))
}
