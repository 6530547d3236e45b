package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectRangeByteChangesFullToLimited(t *testing.T) {
	dir := t.TempDir()
	idx := filepath.Join(dir, "movie.d2v")
	writeFile(t, idx, "DGIndexProjectFile16\nYUVRGB_Scale=0\nFrame_Rate=25\n")

	changed, err := CorrectRangeByte(idx, "limited")
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(idx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "YUVRGB_Scale=1")
	assert.Contains(t, string(data), "Frame_Rate=25")
}

func TestCorrectRangeByteNoopWhenAlreadyRight(t *testing.T) {
	dir := t.TempDir()
	idx := filepath.Join(dir, "movie.d2v")
	content := "DGIndexProjectFile16\nYUVRGB_Scale=1\n"
	writeFile(t, idx, content)

	changed, err := CorrectRangeByte(idx, "limited")
	require.NoError(t, err)
	assert.False(t, changed)

	data, err := os.ReadFile(idx)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestCorrectRangeByteFullRange(t *testing.T) {
	dir := t.TempDir()
	idx := filepath.Join(dir, "movie.d2v")
	writeFile(t, idx, "DGIndexProjectFile16\nYUVRGB_Scale=1\n")

	changed, err := CorrectRangeByte(idx, "full")
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(idx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "YUVRGB_Scale=0")
}

func TestCorrectRangeByteRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	idx := filepath.Join(dir, "movie.d2v")
	writeFile(t, idx, "not a d2v file at all")

	_, err := CorrectRangeByte(idx, "limited")
	assert.Error(t, err)
}
