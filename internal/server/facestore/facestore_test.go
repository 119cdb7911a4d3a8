package facestore

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveBase64(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	content := []byte("png-bytes")
	path, err := store.SaveBase64(7, base64.StdEncoding.EncodeToString(content))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(store.Dir(), "user_7.png"), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestSaveBase64_InvalidEncoding(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveBase64(7, "not-valid-base64!!!")
	assert.Error(t, err)
}

func TestSave_Overwrite(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(7, bytes.NewReader([]byte("first")))
	require.NoError(t, err)

	path, err := store.Save(7, bytes.NewReader([]byte("second")))
	require.NoError(t, err)

	// Повторная загрузка заменяет файл того же пользователя
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), saved)

	// Временных файлов после записи не остается
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user_7.png", entries[0].Name())
}

func TestSave_PerUserIsolation(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	p1, err := store.Save(1, bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	p2, err := store.Save(2, bytes.NewReader([]byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)

	saved, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), saved)
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "face_data")

	_, err := New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "/images/user_7.png", PublicURL("/data/face_data/user_7.png"))
	assert.Equal(t, "/images/user_7.png", PublicURL("face_data/user_7.png"))
	assert.Empty(t, PublicURL(""))
}
