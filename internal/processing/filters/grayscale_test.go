package filters

import (
	"context"
	"testing"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayscaleLuminosity(t *testing.T) {
	buf, err := raster.FromBytes([]byte{
		10, 20, 30, 7,
		255, 255, 255, 0,
		0, 0, 255, 9,
	}, 3, 1, 4)
	require.NoError(t, err)

	Grayscale(buf)

	assert.Equal(t, []byte{
		21, 21, 21, 255,
		255, 255, 255, 255,
		76, 76, 76, 255,
	}, buf.Pix)
}

func TestGrayscaleWithoutAlpha(t *testing.T) {
	buf, err := raster.FromBytes([]byte{100, 0, 0, 0, 100, 0}, 2, 1, 3)
	require.NoError(t, err)

	Grayscale(buf)
	assert.Equal(t, []byte{11, 11, 11, 59, 59, 59}, buf.Pix)
}

func TestGrayscaleIsIdempotent(t *testing.T) {
	levels, err := raster.New(256, 1, 3)
	require.NoError(t, err)
	for v := 0; v < 256; v++ {
		copy(levels.Pix[v*3:], []byte{byte(v), byte(v), byte(v)})
	}
	once := GrayscaleCopy(levels)
	assert.Equal(t, levels.Pix, once.Pix, "gray input must map to itself")

	for _, bpp := range []int{3, 4} {
		src := random(t, 31, 17, bpp, int64(bpp))
		once := GrayscaleCopy(src)
		twice := GrayscaleCopy(once)
		assert.Equal(t, once.Pix, twice.Pix)
	}
}

func TestGrayscaleConverterLeavesInputUntouched(t *testing.T) {
	src := random(t, 4, 4, 3, 3)
	before := src.Clone()

	g := NewGrayscaleConverter()
	out, err := g.Apply(context.Background(), src, kernel.MustNew("Gray", [][]float64{{1}}, kernel.WithGrayscale()))
	require.NoError(t, err)

	assert.Equal(t, before.Pix, src.Pix)
	assert.False(t, raster.Overlaps(src, out))
	assert.Equal(t, GrayscaleCopy(src).Pix, out.Pix)
}

func TestGrayscaleConverterShouldExecute(t *testing.T) {
	g := NewGrayscaleConverter()
	assert.True(t, g.ShouldExecute(kernel.MustNew("A", [][]float64{{1}}, kernel.WithGrayscale())))
	assert.False(t, g.ShouldExecute(kernel.MustNew("B", [][]float64{{1}})))
	assert.Equal(t, "grayscale", g.Name())
}
