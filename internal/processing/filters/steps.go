package filters

import (
	"context"
	"fmt"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/raster"
)

// Resolver looks up catalog entries by name.
type Resolver interface {
	Lookup(name string) (*kernel.Descriptor, error)
}

// BlurFilter runs the descriptor's blur reference as a pre-pass.
type BlurFilter struct {
	convolver *Convolver
	resolver  Resolver
}

func NewBlurFilter(convolver *Convolver, resolver Resolver) *BlurFilter {
	return &BlurFilter{
		convolver: convolver,
		resolver:  resolver,
	}
}

func (b *BlurFilter) Name() string {
	return "blur"
}

func (b *BlurFilter) ShouldExecute(d *kernel.Descriptor) bool {
	return d.HasBlur()
}

func (b *BlurFilter) Apply(ctx context.Context, input *raster.Buffer, d *kernel.Descriptor) (*raster.Buffer, error) {
	blur, err := b.resolver.Lookup(d.BlurReference())
	if err != nil {
		return nil, fmt.Errorf("blur filter for %s: %w", d.Name(), err)
	}
	if blur.HasBlur() {
		return nil, fmt.Errorf("%w: blur filter %s of %s has its own blur reference",
			kernel.ErrMalformedKernel, blur.Name(), d.Name())
	}

	return b.convolver.Convolve(ctx, input, blur)
}

// ConvolutionFilter runs the descriptor's main convolution.
type ConvolutionFilter struct {
	convolver *Convolver
}

func NewConvolutionFilter(convolver *Convolver) *ConvolutionFilter {
	return &ConvolutionFilter{convolver: convolver}
}

func (c *ConvolutionFilter) Name() string {
	return "convolve"
}

func (c *ConvolutionFilter) ShouldExecute(*kernel.Descriptor) bool {
	return true
}

func (c *ConvolutionFilter) Apply(ctx context.Context, input *raster.Buffer, d *kernel.Descriptor) (*raster.Buffer, error) {
	return c.convolver.Convolve(ctx, input, d)
}
