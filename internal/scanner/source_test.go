package scanner

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, w, w))))
}

func TestDirSource_NewestUnseenFrame(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	src, err := NewDirSource(dir)
	require.NoError(t, err)

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, ErrNoFrame)

	writePNG(t, filepath.Join(dir, "0001.png"), 4)
	writePNG(t, filepath.Join(dir, "0002.png"), 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	img, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx(), "newest frame wins")

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, ErrNoFrame, "older frames are skipped once seen")

	writePNG(t, filepath.Join(dir, "0003.png"), 6)
	img, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())

	require.NoError(t, src.Close())
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestDirSource_BadDir(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.png")
	writePNG(t, file, 2)
	_, err = NewDirSource(file)
	assert.Error(t, err)
}

func TestImageSource(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 1, 1))
	b := image.NewGray(image.Rect(0, 0, 2, 2))
	src := NewImageSource(a, b)
	ctx := context.Background()

	for _, want := range []int{1, 2, 1} {
		img, err := src.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, img.Bounds().Dx())
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err := src.Next(cctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewImageSource().Next(ctx)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestNewFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	writePNG(t, path, 3)

	src, err := NewFileSource(path)
	require.NoError(t, err)
	img, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	_, err = NewFileSource(filepath.Join(t.TempDir(), "none.png"))
	assert.Error(t, err)
}
