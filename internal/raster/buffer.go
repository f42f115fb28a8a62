package raster

import (
	"fmt"
	"unsafe"
)

// Buffer is a flat row-major pixel buffer in B, G, R[, A] channel order.
// Rows are packed: the stride is always Width*BytesPerPixel.
type Buffer struct {
	Pix           []byte
	Width         int
	Height        int
	BytesPerPixel int
}

// New allocates a zeroed buffer with the given geometry.
func New(width, height, bytesPerPixel int) (*Buffer, error) {
	if err := ValidateDimensions(width, height, "allocate buffer"); err != nil {
		return nil, err
	}
	if err := ValidateLayout(bytesPerPixel, "allocate buffer"); err != nil {
		return nil, err
	}

	return &Buffer{
		Pix:           make([]byte, width*height*bytesPerPixel),
		Width:         width,
		Height:        height,
		BytesPerPixel: bytesPerPixel,
	}, nil
}

// FromBytes wraps pix without copying. The slice must hold exactly
// width*height*bytesPerPixel bytes.
func FromBytes(pix []byte, width, height, bytesPerPixel int) (*Buffer, error) {
	b := &Buffer{
		Pix:           pix,
		Width:         width,
		Height:        height,
		BytesPerPixel: bytesPerPixel,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Stride returns the number of bytes in one row.
func (b *Buffer) Stride() int {
	return b.Width * b.BytesPerPixel
}

// HasAlpha reports whether the buffer carries a fourth channel.
func (b *Buffer) HasAlpha() bool {
	return b.BytesPerPixel == 4
}

// Offset returns the index of the first channel byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return y*b.Stride() + x*b.BytesPerPixel
}

// Validate checks the geometry and the backing slice length.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: buffer is nil", ErrInvalidDimensions)
	}
	if err := ValidateDimensions(b.Width, b.Height, "validate buffer"); err != nil {
		return err
	}
	if err := ValidateLayout(b.BytesPerPixel, "validate buffer"); err != nil {
		return err
	}
	if want := b.Stride() * b.Height; len(b.Pix) != want {
		return fmt.Errorf("%w: have %d bytes, want %d for %dx%d@%d",
			ErrBufferSize, len(b.Pix), want, b.Width, b.Height, b.BytesPerPixel)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{
		Pix:           pix,
		Width:         b.Width,
		Height:        b.Height,
		BytesPerPixel: b.BytesPerPixel,
	}
}

// SameGeometry reports whether both buffers have identical width, height and layout.
func (b *Buffer) SameGeometry(other *Buffer) bool {
	return other != nil &&
		b.Width == other.Width &&
		b.Height == other.Height &&
		b.BytesPerPixel == other.BytesPerPixel
}

// Overlaps reports whether the backing arrays of a and b share any byte.
func Overlaps(a, b *Buffer) bool {
	if a == nil || b == nil || len(a.Pix) == 0 || len(b.Pix) == 0 {
		return false
	}

	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a.Pix)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b.Pix)))
	aEnd := aStart + uintptr(len(a.Pix))
	bEnd := bStart + uintptr(len(b.Pix))

	return aStart < bEnd && bStart < aEnd
}
