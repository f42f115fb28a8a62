package kernel

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Descriptor is one named filter definition. Kernels differ only by data:
// a gradient filter is a descriptor that carries a secondary matrix.
type Descriptor struct {
	name      string
	primary   *mat.Dense
	secondary *mat.Dense
	factor    float64
	bias      int
	grayscale bool
	blur      string
}

// Option configures optional descriptor fields.
type Option func(*options)

type options struct {
	secondary [][]float64
	factor    float64
	bias      int
	grayscale bool
	blur      string
}

// WithSecondary attaches the second directional matrix of a gradient filter.
func WithSecondary(rows [][]float64) Option {
	return func(o *options) {
		o.secondary = rows
	}
}

// WithFactor sets the multiplier applied to each raw weighted sum.
func WithFactor(factor float64) Option {
	return func(o *options) {
		o.factor = factor
	}
}

// WithBias sets the offset added after scaling.
func WithBias(bias int) Option {
	return func(o *options) {
		o.bias = bias
	}
}

// WithGrayscale converts the working buffer to grayscale before the kernel runs.
func WithGrayscale() Option {
	return func(o *options) {
		o.grayscale = true
	}
}

// WithBlur names the catalog entry convolved into the working buffer first.
func WithBlur(name string) Option {
	return func(o *options) {
		o.blur = name
	}
}

// New validates the matrices and builds an immutable descriptor.
func New(name string, primary [][]float64, opts ...Option) (*Descriptor, error) {
	o := options{factor: 1.0}
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrMalformedKernel)
	}
	if math.IsNaN(o.factor) || math.IsInf(o.factor, 0) {
		return nil, fmt.Errorf("%w: %s: factor %v is not finite", ErrMalformedKernel, name, o.factor)
	}

	p, err := denseFromRows(primary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: primary matrix: %v", ErrMalformedKernel, name, err)
	}

	d := &Descriptor{
		name:      name,
		primary:   p,
		factor:    o.factor,
		bias:      o.bias,
		grayscale: o.grayscale,
		blur:      o.blur,
	}

	if o.secondary != nil {
		s, err := denseFromRows(o.secondary)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: secondary matrix: %v", ErrMalformedKernel, name, err)
		}
		pr, _ := p.Dims()
		sr, _ := s.Dims()
		if pr != sr {
			return nil, fmt.Errorf("%w: %s: secondary matrix is %dx%d, primary is %dx%d",
				ErrMalformedKernel, name, sr, sr, pr, pr)
		}
		d.secondary = s
	}

	if d.blur == name {
		return nil, fmt.Errorf("%w: %s: blur reference points at itself", ErrMalformedKernel, name)
	}

	return d, nil
}

// MustNew is New for statically known kernels.
func MustNew(name string, primary [][]float64, opts ...Option) *Descriptor {
	d, err := New(name, primary, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// denseFromRows copies a square, odd-sided, finite matrix into gonum storage.
func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	side := len(rows)
	if side == 0 {
		return nil, fmt.Errorf("matrix is empty")
	}
	if side%2 == 0 {
		return nil, fmt.Errorf("side %d is even", side)
	}

	data := make([]float64, 0, side*side)
	for i, row := range rows {
		if len(row) != side {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), side)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("weight (%d,%d) is not finite", i, j)
			}
		}
		data = append(data, row...)
	}

	return mat.NewDense(side, side, data), nil
}

func (d *Descriptor) Name() string          { return d.name }
func (d *Descriptor) Factor() float64       { return d.factor }
func (d *Descriptor) Bias() int             { return d.bias }
func (d *Descriptor) Grayscale() bool       { return d.grayscale }
func (d *Descriptor) BlurReference() string { return d.blur }
func (d *Descriptor) HasBlur() bool         { return d.blur != "" }
func (d *Descriptor) HasSecondary() bool    { return d.secondary != nil }

// Size returns the side length of the (square) matrices.
func (d *Descriptor) Size() int {
	r, _ := d.primary.Dims()
	return r
}

// Offset returns the kernel half-width, (side-1)/2.
func (d *Descriptor) Offset() int {
	return (d.Size() - 1) / 2
}

// Weights returns a row-major copy of the primary matrix.
func (d *Descriptor) Weights() []float64 {
	return rawCopy(d.primary)
}

// SecondaryWeights returns a row-major copy of the secondary matrix, or nil.
func (d *Descriptor) SecondaryWeights() []float64 {
	if d.secondary == nil {
		return nil
	}
	return rawCopy(d.secondary)
}

// Primary returns a copy of the primary matrix.
func (d *Descriptor) Primary() mat.Matrix {
	return mat.DenseCopyOf(d.primary)
}

// Secondary returns a copy of the secondary matrix, or nil.
func (d *Descriptor) Secondary() mat.Matrix {
	if d.secondary == nil {
		return nil
	}
	return mat.DenseCopyOf(d.secondary)
}

// WeightSum returns the sum of the primary weights.
func (d *Descriptor) WeightSum() float64 {
	return mat.Sum(d.primary)
}

// Describe renders the progress label used while the kernel is applied.
func (d *Descriptor) Describe() string {
	var sb strings.Builder
	sb.WriteString(d.name)
	if d.grayscale {
		sb.WriteString(" + Grayscale")
	}
	if d.blur != "" {
		sb.WriteString(" + Blur filter: ")
		sb.WriteString(d.blur)
	}
	return sb.String()
}

func (d *Descriptor) String() string {
	return d.name
}

func rawCopy(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}
