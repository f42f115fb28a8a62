package imageio

import (
	"errors"
	"fmt"

	"kernel-convolver/internal/raster"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoder reads an image file into a BGR (bpp 3) or BGRA (bpp 4) buffer.
type Decoder interface {
	Decode(path string, bytesPerPixel int) (*raster.Buffer, error)
}

// Encoder writes a buffer to path in the format implied by its extension.
type Encoder interface {
	Encode(path string, buf *raster.Buffer) error
}

type Codec interface {
	Decoder
	Encoder
}

// NewCodec returns the codec registered under name ("gocv" or "go").
func NewCodec(name string, jpegQuality int) (Codec, error) {
	switch name {
	case "gocv":
		return NewGocvCodec(jpegQuality), nil
	case "go":
		return NewGoCodec(jpegQuality), nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrUnsupportedFormat, name)
	}
}
