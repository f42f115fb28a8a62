package imageio

import (
	"fmt"

	"kernel-convolver/internal/opencv/conversion"
	"kernel-convolver/internal/opencv/safe"
	"kernel-convolver/internal/raster"

	"gocv.io/x/gocv"
)

// GocvCodec decodes and encodes through OpenCV.
type GocvCodec struct {
	jpegQuality int
}

func NewGocvCodec(jpegQuality int) *GocvCodec {
	return &GocvCodec{jpegQuality: jpegQuality}
}

func (c *GocvCodec) Decode(path string, bytesPerPixel int) (*raster.Buffer, error) {
	if err := raster.ValidateLayout(bytesPerPixel, "decode"); err != nil {
		return nil, err
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	loaded, err := safe.Wrap(mat, "input")
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	defer loaded.Close()

	working, err := conversion.EnsureChannels(loaded, bytesPerPixel)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}
	defer working.Close()

	return conversion.MatToBuffer(working)
}

func (c *GocvCodec) Encode(path string, buf *raster.Buffer) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	mat, err := conversion.BufferToMat(buf)
	if err != nil {
		return fmt.Errorf("failed to prepare %s: %w", path, err)
	}
	defer mat.Close()

	var params []int
	if format == "jpeg" {
		params = []int{int(gocv.IMWriteJpegQuality), c.jpegQuality}
	}

	if !gocv.IMWriteWithParams(path, mat.GetMat(), params) {
		return fmt.Errorf("failed to write image %s", path)
	}
	return nil
}
