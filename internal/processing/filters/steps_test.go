package filters

import (
	"context"
	"testing"

	"kernel-convolver/internal/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string]*kernel.Descriptor

func (m mapResolver) Lookup(name string) (*kernel.Descriptor, error) {
	if d, ok := m[name]; ok {
		return d, nil
	}
	return nil, kernel.ErrUnknownKernel
}

func TestBlurFilterUsesReferencedKernel(t *testing.T) {
	c := standard(t)
	conv := NewConvolver(1)
	blur := NewBlurFilter(conv, c)

	d, err := c.Lookup("Laplacian5x5_GaussianBlur3x3")
	require.NoError(t, err)
	require.True(t, blur.ShouldExecute(d))

	src := random(t, 9, 9, 3, 11)
	got, err := blur.Apply(context.Background(), src, d)
	require.NoError(t, err)

	gauss, err := c.Lookup("GaussianBlur3x3")
	require.NoError(t, err)
	want, err := conv.Convolve(context.Background(), src, gauss)
	require.NoError(t, err)

	assert.Equal(t, want.Pix, got.Pix)
}

func TestBlurFilterUnknownReference(t *testing.T) {
	blur := NewBlurFilter(NewConvolver(1), mapResolver{})
	d := kernel.MustNew("Sharp", [][]float64{{1}}, kernel.WithBlur("Missing"))

	_, err := blur.Apply(context.Background(), random(t, 2, 2, 3, 1), d)
	assert.ErrorIs(t, err, kernel.ErrUnknownKernel)
}

func TestBlurFilterRejectsChainedReference(t *testing.T) {
	chained := kernel.MustNew("Soft", [][]float64{{1}}, kernel.WithBlur("Softer"))
	blur := NewBlurFilter(NewConvolver(1), mapResolver{"Soft": chained})
	d := kernel.MustNew("Sharp", [][]float64{{1}}, kernel.WithBlur("Soft"))

	_, err := blur.Apply(context.Background(), random(t, 2, 2, 3, 1), d)
	assert.ErrorIs(t, err, kernel.ErrMalformedKernel)
}

func TestConvolutionFilterAlwaysRuns(t *testing.T) {
	f := NewConvolutionFilter(NewConvolver(1))
	assert.True(t, f.ShouldExecute(kernel.MustNew("A", [][]float64{{1}})))
	assert.Equal(t, "convolve", f.Name())
}
