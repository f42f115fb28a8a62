package imageio

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"kernel-convolver/internal/raster"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// GoCodec decodes and encodes without cgo. Decoding accepts png, jpeg, gif,
// bmp, tiff and webp; encoding writes png, jpeg, bmp and tiff.
type GoCodec struct {
	jpegQuality int
}

var encodable = map[string]bool{"jpeg": true, "png": true, "bmp": true, "tiff": true}

func NewGoCodec(jpegQuality int) *GoCodec {
	return &GoCodec{jpegQuality: jpegQuality}
}

// Decode discards any source transparency, matching an OpenCV color read:
// the alpha byte of a 4-byte layout is 255.
func (c *GoCodec) Decode(path string, bytesPerPixel int) (*raster.Buffer, error) {
	if err := raster.ValidateLayout(bytesPerPixel, "decode"); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return ImageToBuffer(img, bytesPerPixel)
}

func (c *GoCodec) Encode(path string, buf *raster.Buffer) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if !encodable[format] {
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
	}

	img, err := BufferToImage(buf)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	switch format {
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: c.jpegQuality})
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return w.Flush()
}

// ImageToBuffer converts img to B,G,R[,255] bytes.
func ImageToBuffer(img image.Image, bytesPerPixel int) (*raster.Buffer, error) {
	bounds := img.Bounds()
	buf, err := raster.New(bounds.Dx(), bounds.Dy(), bytesPerPixel)
	if err != nil {
		return nil, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	for y := 0; y < buf.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < buf.Width; x++ {
			s := x * 4
			d := buf.Offset(x, y)
			buf.Pix[d] = row[s+2]
			buf.Pix[d+1] = row[s+1]
			buf.Pix[d+2] = row[s]
			if bytesPerPixel == 4 {
				buf.Pix[d+3] = 255
			}
		}
	}

	return buf, nil
}

// BufferToImage converts a BGR or BGRA buffer to an NRGBA image. Three-byte
// pixels become opaque.
func BufferToImage(buf *raster.Buffer) (*image.NRGBA, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < buf.Width; x++ {
			s := buf.Offset(x, y)
			d := x * 4
			row[d] = buf.Pix[s+2]
			row[d+1] = buf.Pix[s+1]
			row[d+2] = buf.Pix[s]
			row[d+3] = 255
			if buf.HasAlpha() {
				row[d+3] = buf.Pix[s+3]
			}
		}
	}

	return img, nil
}
