package filters

import (
	"context"
	"errors"
	"fmt"
	"math"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/raster"

	"golang.org/x/sync/errgroup"
)

// ErrInPlace is returned when source and destination share memory. Every tap
// of a pass must read unmodified neighbours, so convolution never runs in place.
var ErrInPlace = errors.New("convolution source and destination overlap")

// Convolver applies kernel descriptors to pixel buffers. Rows are split into
// bands across workers; the output does not depend on the worker count.
type Convolver struct {
	workers int
}

// NewConvolver creates a convolver using up to workers goroutines per pass.
// Values below 1 mean a single sequential pass.
func NewConvolver(workers int) *Convolver {
	if workers < 1 {
		workers = 1
	}
	return &Convolver{workers: workers}
}

func (c *Convolver) Workers() int {
	if c == nil || c.workers < 1 {
		return 1
	}
	return c.workers
}

// Convolve returns a freshly allocated buffer holding src convolved with d.
func (c *Convolver) Convolve(ctx context.Context, src *raster.Buffer, d *kernel.Descriptor) (*raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("convolve %s: %w", d.Name(), err)
	}

	dst, err := raster.New(src.Width, src.Height, src.BytesPerPixel)
	if err != nil {
		return nil, err
	}

	if err := c.ConvolveInto(ctx, dst, src, d); err != nil {
		return nil, err
	}
	return dst, nil
}

// ConvolveInto writes src convolved with d into dst. Both buffers must have
// the same geometry and must not overlap.
func (c *Convolver) ConvolveInto(ctx context.Context, dst, src *raster.Buffer, d *kernel.Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", kernel.ErrMalformedKernel)
	}
	if err := raster.ValidatePair(dst, src, "convolve "+d.Name()); err != nil {
		return err
	}
	if raster.Overlaps(dst, src) {
		return fmt.Errorf("convolve %s: %w", d.Name(), ErrInPlace)
	}

	t := newTaps(d)

	workers := min(c.Workers(), src.Height)
	if workers == 1 {
		return convolveRows(ctx, dst, src, t, 0, src.Height)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		y0 := i * src.Height / workers
		y1 := (i + 1) * src.Height / workers
		g.Go(func() error {
			return convolveRows(gctx, dst, src, t, y0, y1)
		})
	}

	return g.Wait()
}

// taps is the flattened, read-only form of a descriptor used by the pixel loop.
type taps struct {
	side      int
	offset    int
	primary   []float64
	secondary []float64
	factor    float64
	bias      float64
}

func newTaps(d *kernel.Descriptor) *taps {
	return &taps{
		side:      d.Size(),
		offset:    d.Offset(),
		primary:   d.Weights(),
		secondary: d.SecondaryWeights(),
		factor:    d.Factor(),
		bias:      float64(d.Bias()),
	}
}

// convolveRows fills rows [y0, y1) of dst. Out-of-range taps read the nearest
// edge pixel.
func convolveRows(ctx context.Context, dst, src *raster.Buffer, t *taps, y0, y1 int) error {
	width := src.Width
	height := src.Height
	bpp := src.BytesPerPixel
	stride := src.Stride()
	alpha := src.HasAlpha()
	gradient := t.secondary != nil

	for y := y0; y < y1; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for x := 0; x < width; x++ {
			var pb, pg, pr float64
			var sb, sg, sr float64

			for fy := 0; fy < t.side; fy++ {
				row := clamp(y+fy-t.offset, 0, height-1)
				rowBase := row * stride

				for fx := 0; fx < t.side; fx++ {
					col := clamp(x+fx-t.offset, 0, width-1)
					o := rowBase + col*bpp

					b := float64(src.Pix[o])
					g := float64(src.Pix[o+1])
					r := float64(src.Pix[o+2])

					w := t.primary[fy*t.side+fx]
					pb += b * w
					pg += g * w
					pr += r * w

					if gradient {
						w2 := t.secondary[fy*t.side+fx]
						sb += b * w2
						sg += g * w2
						sr += r * w2
					}
				}
			}

			pb = t.factor*pb + t.bias
			pg = t.factor*pg + t.bias
			pr = t.factor*pr + t.bias

			if gradient {
				sb = t.factor*sb + t.bias
				sg = t.factor*sg + t.bias
				sr = t.factor*sr + t.bias

				pb = math.Sqrt(pb*pb + sb*sb)
				pg = math.Sqrt(pg*pg + sg*sg)
				pr = math.Sqrt(pr*pr + sr*sr)
			}

			out := y*stride + x*bpp
			dst.Pix[out] = clampByte(pb)
			dst.Pix[out+1] = clampByte(pg)
			dst.Pix[out+2] = clampByte(pr)
			if alpha {
				dst.Pix[out+3] = 255
			}
		}
	}

	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampByte saturates v to [0, 255] and truncates toward zero.
func clampByte(v float64) byte {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}
