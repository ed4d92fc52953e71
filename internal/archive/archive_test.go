package archive

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailResizesToWidth(t *testing.T) {
	data := encodeTestImage(t, 640, 480)
	path := filepath.Join(t.TempDir(), "thumb.png")

	require.NoError(t, Thumbnail(data, path, 320))

	thumb, err := imaging.Open(path)
	require.NoError(t, err)
	bounds := thumb.Bounds()
	assert.Equal(t, 320, bounds.Dx())
	assert.Equal(t, 240, bounds.Dy())
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.png")
	assert.Error(t, Thumbnail([]byte("not an image"), path, 320))
}

func TestSnapshotWritesAllArtifacts(t *testing.T) {
	orig := capturePage
	capturePage = func(ctx context.Context, url string, timeout time.Duration) ([]byte, []byte, error) {
		assert.Equal(t, "https://example.com", url)
		assert.Equal(t, defaultTimeout, timeout)
		return encodeTestImage(t, 800, 600), []byte("%PDF-1.7 fake"), nil
	}
	t.Cleanup(func() { capturePage = orig })

	dir := filepath.Join(t.TempDir(), "archive")
	result, err := Snapshot(context.Background(), "https://example.com", "example", Options{OutputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "example.png"), result.ScreenshotPath)
	assert.Equal(t, filepath.Join(dir, "example-thumb.png"), result.ThumbnailPath)
	assert.Equal(t, filepath.Join(dir, "example.pdf"), result.PDFPath)

	for _, path := range []string{result.ScreenshotPath, result.ThumbnailPath, result.PDFPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestSnapshotPropagatesCaptureFailure(t *testing.T) {
	orig := capturePage
	capturePage = func(ctx context.Context, url string, timeout time.Duration) ([]byte, []byte, error) {
		return nil, nil, context.DeadlineExceeded
	}
	t.Cleanup(func() { capturePage = orig })

	_, err := Snapshot(context.Background(), "https://example.com", "example", Options{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
