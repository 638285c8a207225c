package transcode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp" // webp decode support
)

// DefaultQuality is the JPEG quality factor used when no override is
// configured.
const DefaultQuality = 80

// ContentType of every transcoded artifact.
const ContentType = "image/jpeg"

// Ext is the file extension of every transcoded artifact.
const Ext = "jpg"

// ErrTranscode marks inputs that could not be decoded or re-encoded. A
// payload failing with this error is not a valid raster image; retrying the
// same bytes will not succeed.
var ErrTranscode = errors.New("transcode failed")

type Result struct {
	Data   []byte
	Width  int
	Height int
}

// ToJPEG decodes src and re-encodes it as JPEG at the given quality.
// Pixel dimensions are preserved; EXIF orientation is applied during decode.
func ToJPEG(src []byte, quality int) (Result, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("%w: decode: %v", ErrTranscode, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Result{}, fmt.Errorf("%w: encode: %v", ErrTranscode, err)
	}

	bounds := img.Bounds()
	return Result{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
