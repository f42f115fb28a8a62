package conversion

import (
	"fmt"

	"kernel-convolver/internal/opencv/safe"
	"kernel-convolver/internal/raster"

	"gocv.io/x/gocv"
)

// EnsureChannels returns a Mat with exactly channels channels (3 = BGR,
// 4 = BGRA). The result is always a new Mat owned by the caller.
func EnsureChannels(src *safe.Mat, channels int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "channel conversion"); err != nil {
		return nil, err
	}

	have := src.Channels()
	switch {
	case have == channels:
		return src.Clone()
	case have == 1 && channels == 3:
		return src.ConvertColor(gocv.ColorGrayToBGR)
	case have == 1 && channels == 4:
		return src.ConvertColor(gocv.ColorGrayToBGRA)
	case have == 3 && channels == 4:
		return src.ConvertColor(gocv.ColorBGRToBGRA)
	case have == 4 && channels == 3:
		return src.ConvertColor(gocv.ColorBGRAToBGR)
	default:
		return nil, fmt.Errorf("%w: cannot convert %d channels to %d", raster.ErrUnsupportedLayout, have, channels)
	}
}

// MatToBuffer copies an 8-bit BGR or BGRA Mat into a raster buffer.
func MatToBuffer(src *safe.Mat) (*raster.Buffer, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to buffer conversion"); err != nil {
		return nil, err
	}
	if err := safe.ValidateMatType(src.Type(), "Mat to buffer conversion"); err != nil {
		return nil, err
	}

	channels := src.Channels()
	if err := raster.ValidateLayout(channels, "Mat to buffer conversion"); err != nil {
		return nil, err
	}

	data, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read Mat data: %w", err)
	}

	return raster.FromBytes(data, src.Cols(), src.Rows(), channels)
}

// BufferToMat copies buf into a new CV_8UC3 or CV_8UC4 Mat.
func BufferToMat(buf *raster.Buffer) (*safe.Mat, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	matType := gocv.MatTypeCV8UC3
	if buf.HasAlpha() {
		matType = gocv.MatTypeCV8UC4
	}

	return safe.NewMatFromBytes(buf.Height, buf.Width, matType, buf.Pix, "buffer")
}
