package filters

import (
	"context"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/raster"
)

// Luminosity weights in hundredths, applied to B, G and R.
const (
	lumaB = 11
	lumaG = 59
	lumaR = 30
)

// GrayscaleConverter reduces the working buffer to luminosity when the
// descriptor asks for it.
type GrayscaleConverter struct{}

// NewGrayscaleConverter creates a new grayscale converter
func NewGrayscaleConverter() *GrayscaleConverter {
	return &GrayscaleConverter{}
}

func (g *GrayscaleConverter) Name() string {
	return "grayscale"
}

func (g *GrayscaleConverter) ShouldExecute(d *kernel.Descriptor) bool {
	return d.Grayscale()
}

// Apply returns a grayscale copy of input; input is left untouched.
func (g *GrayscaleConverter) Apply(ctx context.Context, input *raster.Buffer, _ *kernel.Descriptor) (*raster.Buffer, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	return GrayscaleCopy(input), nil
}

// Grayscale converts buf in place: B, G and R become
// trunc(0.11*B + 0.59*G + 0.30*R) and alpha, if present, becomes 255.
// The sum is formed exactly in hundredths, so gray input maps to itself.
func Grayscale(buf *raster.Buffer) {
	bpp := buf.BytesPerPixel
	pix := buf.Pix
	alpha := buf.HasAlpha()

	for i := 0; i+2 < len(pix); i += bpp {
		lum := (lumaB*int(pix[i]) + lumaG*int(pix[i+1]) + lumaR*int(pix[i+2])) / 100
		v := clampInt(lum)

		pix[i] = v
		pix[i+1] = v
		pix[i+2] = v
		if alpha {
			pix[i+3] = 255
		}
	}
}

// GrayscaleCopy returns a converted copy of buf.
func GrayscaleCopy(buf *raster.Buffer) *raster.Buffer {
	out := buf.Clone()
	Grayscale(out)
	return out
}

func clampInt(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
