package kernel

import "sync"

var (
	sharpen3x3 = [][]float64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	}

	sharpen5x5 = [][]float64{
		{0, 0, -1, 0, 0},
		{0, -1, -1, -1, 0},
		{-1, -1, 13, -1, -1},
		{0, -1, -1, -1, 0},
		{0, 0, -1, 0, 0},
	}

	gaussian3x3 = [][]float64{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}

	gaussian5x5 = [][]float64{
		{2, 4, 5, 4, 2},
		{4, 9, 12, 9, 4},
		{5, 12, 15, 12, 5},
		{4, 9, 12, 9, 4},
		{2, 4, 5, 4, 2},
	}

	unsharpBox3x3 = [][]float64{
		{-1, -1, -1},
		{-1, 17, -1},
		{-1, -1, -1},
	}

	unsharpGaussian3x3 = [][]float64{
		{-0.0023, -0.0432, -0.0023},
		{-0.0432, 1.182, -0.0432},
		{-0.0023, -0.0432, -0.0023},
	}

	laplacian3x3v1 = [][]float64{
		{0, -1, 0},
		{-1, 4, -1},
		{0, -1, 0},
	}

	laplacian3x3v2 = [][]float64{
		{-1, -1, -1},
		{-1, 8, -1},
		{-1, -1, -1},
	}

	laplacian5x5 = [][]float64{
		{-1, -1, -1, -1, -1},
		{-1, -1, -1, -1, -1},
		{-1, -1, 24, -1, -1},
		{-1, -1, -1, -1, -1},
		{-1, -1, -1, -1, -1},
	}

	sobelX = [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [][]float64{
		{1, 2, 1},
		{0, 0, 0},
		{-1, -2, -1},
	}

	prewittX = [][]float64{
		{-1, 0, 1},
		{-1, 0, 1},
		{-1, 0, 1},
	}
	prewittY = [][]float64{
		{1, 1, 1},
		{0, 0, 0},
		{-1, -1, -1},
	}

	kirschN = [][]float64{
		{5, 5, 5},
		{-3, 0, -3},
		{-3, -3, -3},
	}
	kirschW = [][]float64{
		{5, -3, -3},
		{5, 0, -3},
		{5, -3, -3},
	}
)

// ones returns a side x side matrix of ones.
func ones(side int) [][]float64 {
	rows := make([][]float64, side)
	for i := range rows {
		rows[i] = make([]float64, side)
		for j := range rows[i] {
			rows[i][j] = 1
		}
	}
	return rows
}

// StandardEntries builds the standard descriptors in declaration order.
// The order is observable: it is the output numbering.
func StandardEntries() []*Descriptor {
	return []*Descriptor{
		MustNew("Sharpen3x3", sharpen3x3),
		MustNew("Sharpen5x5", sharpen5x5),
		MustNew("BoxBlur3x3", ones(3), WithFactor(1.0/9.0)),
		MustNew("BoxBlur9x9", ones(9), WithFactor(1.0/81.0)),
		MustNew("GaussianBlur3x3", gaussian3x3, WithFactor(1.0/16.0)),
		MustNew("GaussianBlur5x5", gaussian5x5, WithFactor(1.0/159.0)),
		MustNew("UnsharpMask_BoxBlur3x3", unsharpBox3x3, WithFactor(1.0/9.0)),
		MustNew("UnsharpMask_GaussianBlur3x3", unsharpGaussian3x3),
		MustNew("Laplacian3x3_v1", laplacian3x3v1),
		MustNew("Laplacian3x3_v1_Grayscale", laplacian3x3v1, WithGrayscale()),
		MustNew("Laplacian3x3_v2", laplacian3x3v2),
		MustNew("Laplacian3x3_v2_Grayscale", laplacian3x3v2, WithGrayscale()),
		MustNew("Laplacian5x5", laplacian5x5),
		MustNew("Laplacian5x5_GaussianBlur3x3", laplacian5x5, WithBlur("GaussianBlur3x3")),
		MustNew("Laplacian5x5_Grayscale", laplacian5x5, WithGrayscale()),
		MustNew("Laplacian5x5_GaussianBlur3x3_Grayscale", laplacian5x5, WithGrayscale(), WithBlur("GaussianBlur3x3")),
		MustNew("Laplacian5x5_GaussianBlur5x5_Grayscale", laplacian5x5, WithGrayscale(), WithBlur("GaussianBlur5x5")),
		MustNew("Sobel3x3", sobelX, WithSecondary(sobelY)),
		MustNew("Sobel3x3_Grayscale", sobelX, WithSecondary(sobelY), WithGrayscale()),
		MustNew("Prewitt3x3", prewittX, WithSecondary(prewittY)),
		MustNew("Prewitt3x3_Grayscale", prewittX, WithSecondary(prewittY), WithGrayscale()),
		MustNew("Kirsch3x3", kirschN, WithSecondary(kirschW)),
		MustNew("Kirsch3x3_Grayscale", kirschN, WithSecondary(kirschW), WithGrayscale()),
	}
}

var standard = sync.OnceValues(func() (*Catalog, error) {
	return NewCatalog(StandardEntries()...)
})

// Standard returns the process-wide standard catalog. It is built on first
// use and never mutated afterwards.
func Standard() (*Catalog, error) {
	return standard()
}
