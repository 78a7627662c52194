package utils

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFileIsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "grid.nc")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.True(t, IsFile(file))
	assert.False(t, IsDirectory(file))
	assert.True(t, IsDirectory(dir))
	assert.False(t, IsFile(dir))
	assert.False(t, IsFile(filepath.Join(dir, "missing")))
	assert.False(t, IsDirectory(filepath.Join(dir, "missing")))
}

func TestCalcMaxLod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h int
		want uint8
	}{
		{1, 1, 0},
		{256, 256, 0},
		{257, 10, 1},
		{10, 512, 1},
		{1024, 1024, 2},
		{1025, 300, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalcMaxLod(image.Rect(0, 0, tt.w, tt.h)), "%dx%d", tt.w, tt.h)
	}
}

func TestBuildTileSet(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 301, 300))
	for x := 0; x < 301; x++ {
		for y := 0; y < 300; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	out := t.TempDir()
	require.NoError(t, BuildTileSet(context.Background(), 1, img, out))

	for _, tile := range []string{"1/0/0.png", "1/0/1.png", "1/1/0.png", "1/1/1.png"} {
		f, err := os.Open(filepath.Join(out, tile))
		require.NoError(t, err, tile)

		decoded, err := png.Decode(f)
		f.Close()
		require.NoError(t, err, tile)
		assert.Equal(t, image.Rect(0, 0, TileSize, TileSize), decoded.Bounds(), tile)
	}
	assert.NoFileExists(t, filepath.Join(out, "1/2/0.png"))
}

func TestBuildTileSetCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := BuildTileSet(ctx, 0, image.NewRGBA(image.Rect(0, 0, 4, 4)), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
