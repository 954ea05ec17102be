package thumb

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// ErrNotImage is returned when the uploaded bytes cannot be decoded as an
// image.
var ErrNotImage = errors.New("not a decodable image")

const (
	DefaultMaxWidth = 400
	DefaultQuality  = 80
)

// Normalizer resizes uploads to a bounded width and re-encodes them as JPEG
// at a fixed quality, so stored thumbnails stay small and uniform.
type Normalizer struct {
	maxWidth int
	quality  int
}

func NewNormalizer(maxWidth, quality int) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Normalizer{maxWidth: maxWidth, quality: quality}
}

// Normalize decodes raw, resizes proportionally when wider than the bound
// (never upscales) and encodes JPEG. Deterministic for fixed settings.
func (n *Normalizer) Normalize(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if img.Bounds().Dx() > n.maxWidth {
		img = imaging.Resize(img, n.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType reports the MIME type of normalized output.
func (n *Normalizer) ContentType() string { return "image/jpeg" }

// Ext reports the file extension matching the normalized format.
func (n *Normalizer) Ext() string { return ".jpg" }
