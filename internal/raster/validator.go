package raster

import (
	"errors"
	"fmt"
)

// MaxDimension bounds either side of a buffer.
const MaxDimension = 32768

var (
	ErrInvalidDimensions = errors.New("invalid buffer dimensions")
	ErrUnsupportedLayout = errors.New("unsupported pixel layout")
	ErrBufferSize        = errors.New("buffer size does not match geometry")
	ErrGeometryMismatch  = errors.New("buffer geometry mismatch")
)

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d for operation: %s", ErrInvalidDimensions, width, height, operation)
	}

	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds maximum size for operation: %s",
			ErrInvalidDimensions, width, height, operation)
	}

	return nil
}

func ValidateLayout(bytesPerPixel int, operation string) error {
	switch bytesPerPixel {
	case 3, 4:
		return nil
	default:
		return fmt.Errorf("%w: %d bytes per pixel for operation: %s", ErrUnsupportedLayout, bytesPerPixel, operation)
	}
}

// ValidatePair checks that dst can receive the result of a pass over src.
func ValidatePair(dst, src *Buffer, operation string) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if !dst.SameGeometry(src) {
		return fmt.Errorf("%w: source %dx%d@%d, destination %dx%d@%d for operation: %s",
			ErrGeometryMismatch,
			src.Width, src.Height, src.BytesPerPixel,
			dst.Width, dst.Height, dst.BytesPerPixel,
			operation)
	}
	return nil
}
