package thumb

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
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

func TestNormalize_ResizesWideImages(t *testing.T) {
	n := NewNormalizer(400, 80)

	out, err := n.Normalize(pngBytes(t, 800, 600))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
}

func TestNormalize_NeverUpscales(t *testing.T) {
	n := NewNormalizer(400, 80)

	out, err := n.Normalize(pngBytes(t, 200, 320))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 320, decoded.Bounds().Dy())
}

func TestNormalize_ExactBoundIsLeftAlone(t *testing.T) {
	n := NewNormalizer(400, 80)

	out, err := n.Normalize(pngBytes(t, 400, 100))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
}

func TestNormalize_RejectsNonImage(t *testing.T) {
	n := NewNormalizer(400, 80)

	_, err := n.Normalize([]byte("this is not an image"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestNormalize_Deterministic(t *testing.T) {
	n := NewNormalizer(400, 80)
	src := pngBytes(t, 500, 500)

	a, err := n.Normalize(src)
	require.NoError(t, err)
	b, err := n.Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNewNormalizer_Defaults(t *testing.T) {
	n := NewNormalizer(0, 0)
	assert.Equal(t, DefaultMaxWidth, n.maxWidth)
	assert.Equal(t, DefaultQuality, n.quality)

	assert.Equal(t, "image/jpeg", n.ContentType())
	assert.Equal(t, ".jpg", n.Ext())
}
