package transcode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestToJPEGPreservesDimensions(t *testing.T) {
	src := pngBytes(t, 800, 600)

	result, err := ToJPEG(src, DefaultQuality)
	require.NoError(t, err)
	assert.Equal(t, 800, result.Width)
	assert.Equal(t, 600, result.Height)

	decoded, format, err := image.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, decoded.Bounds().Dx())
	assert.Equal(t, 600, decoded.Bounds().Dy())
}

func TestToJPEGFromJPEGSource(t *testing.T) {
	first, err := ToJPEG(pngBytes(t, 400, 300), DefaultQuality)
	require.NoError(t, err)

	// Re-encoding an already-lossy source still succeeds and keeps size.
	second, err := ToJPEG(first.Data, DefaultQuality)
	require.NoError(t, err)
	assert.Equal(t, 400, second.Width)
	assert.Equal(t, 300, second.Height)
}

func TestToJPEGRejectsGarbage(t *testing.T) {
	for _, src := range [][]byte{nil, {}, []byte("definitely not an image"), {0xff, 0xd8, 0xff}} {
		_, err := ToJPEG(src, DefaultQuality)
		assert.ErrorIs(t, err, ErrTranscode)
	}
}

func TestToJPEGQualityOutOfRangeFallsBack(t *testing.T) {
	src := pngBytes(t, 10, 10)

	for _, quality := range []int{0, -5, 101} {
		result, err := ToJPEG(src, quality)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Data)
	}
}
