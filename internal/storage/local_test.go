package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploader_Upload(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), "acc-1/cv.pdf", "application/pdf", bytes.NewReader([]byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/acc-1/cv.pdf", url)

	b, err := os.ReadFile(filepath.Join(dir, "acc-1", "cv.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(b))
}

func TestLocalUploader_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), "../../escape.txt", "text/plain", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.txt", url)
	assert.FileExists(t, filepath.Join(dir, "uploads", "escape.txt"))
}
