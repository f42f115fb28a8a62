package imageio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"kernel-convolver/internal/pipeline"
	"kernel-convolver/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pattern(t *testing.T, bpp int) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(5, 3, bpp)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = byte(i * 7)
	}
	if bpp == 4 {
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				buf.Pix[buf.Offset(x, y)+3] = 255
			}
		}
	}
	return buf
}

func TestGoCodecLosslessRoundTrip(t *testing.T) {
	codec := NewGoCodec(95)

	for _, format := range []string{"png", "bmp", "tiff"} {
		for _, bpp := range []int{3, 4} {
			src := pattern(t, bpp)
			path := filepath.Join(t.TempDir(), OutputName(1, "Identity", format))

			require.NoError(t, codec.Encode(path, src), format)

			got, err := codec.Decode(path, bpp)
			require.NoError(t, err, format)
			assert.Equal(t, src.Width, got.Width)
			assert.Equal(t, src.Height, got.Height)
			assert.Equal(t, src.Pix, got.Pix, "%s bpp=%d", format, bpp)
		}
	}
}

func TestGoCodecJPEGKeepsGeometry(t *testing.T) {
	codec := NewGoCodec(90)
	path := filepath.Join(t.TempDir(), "1_Sharpen3x3.jpeg")

	require.NoError(t, codec.Encode(path, pattern(t, 3)))

	got, err := codec.Decode(path, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Width)
	assert.Equal(t, 3, got.Height)
	assert.Equal(t, 4, got.BytesPerPixel)
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			assert.Equal(t, byte(255), got.Pix[got.Offset(x, y)+3])
		}
	}
}

func TestGoCodecDecodeDropsTransparency(t *testing.T) {
	codec := NewGoCodec(95)
	src := pattern(t, 4)
	src.Pix[3] = 10
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, codec.Encode(path, src))

	got, err := codec.Decode(path, 4)
	require.NoError(t, err)
	assert.Equal(t, src.Pix[:3], got.Pix[:3])
	assert.Equal(t, byte(255), got.Pix[3])
}

func TestGoCodecErrors(t *testing.T) {
	codec := NewGoCodec(95)
	dir := t.TempDir()

	_, err := codec.Decode(filepath.Join(dir, "missing.png"), 3)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = codec.Decode(filepath.Join(dir, "missing.png"), 2)
	assert.ErrorIs(t, err, raster.ErrUnsupportedLayout)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = codec.Decode(garbage, 3)
	assert.Error(t, err)

	assert.ErrorIs(t, codec.Encode(filepath.Join(dir, "out.webp"), pattern(t, 3)), ErrUnsupportedFormat)
	assert.ErrorIs(t, codec.Encode(filepath.Join(dir, "out.xyz"), pattern(t, 3)), ErrUnsupportedFormat)
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec("go", 80)
	require.NoError(t, err)
	assert.IsType(t, &GoCodec{}, c)

	c, err = NewCodec("gocv", 80)
	require.NoError(t, err)
	assert.IsType(t, &GocvCodec{}, c)

	_, err = NewCodec("magick", 80)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "1_Sharpen3x3.jpeg", OutputName(1, "Sharpen3x3", "jpeg"))
	assert.Equal(t, "12_Sobel3x3_Grayscale.tiff", OutputName(12, "Sobel3x3_Grayscale", "tif"))
	assert.Equal(t, "3_BoxBlur3x3.jpeg", OutputName(3, "BoxBlur3x3", "jpg"))
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"a.JPG": "jpeg", "a.jpeg": "jpeg", "a.png": "png", "a.tif": "tiff",
		"a.TIFF": "tiff", "a.bmp": "bmp", "a.gif": "gif", "a.webp": "webp",
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCleanOutputs(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"0_input.png",
		"1_Sharpen3x3.jpeg",
		"2_Sharpen5x5.tiff",
		"3_BoxBlur3x3.png",
		"4_Kirsch3x3.bmp",
		"notes.txt",
		"holiday.jpeg",
	}
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	removed, err := CleanOutputs(dir, "png", filepath.Join(dir, "0_input.png"))
	require.NoError(t, err)

	var names []string
	for _, p := range removed {
		names = append(names, filepath.Base(p))
	}
	sort.Strings(names)
	assert.Equal(t, []string{"1_Sharpen3x3.jpeg", "2_Sharpen5x5.tiff", "3_BoxBlur3x3.png"}, names)

	for _, kept := range []string{"0_input.png", "4_Kirsch3x3.bmp", "notes.txt", "holiday.jpeg"} {
		assert.FileExists(t, filepath.Join(dir, kept))
	}
}

func TestCleanOutputsNeverRemovesInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "7_Photo.jpeg")
	require.NoError(t, os.WriteFile(input, nil, 0o644))

	removed, err := CleanOutputs(dir, "jpeg", input)
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.FileExists(t, input)

	_, err = CleanOutputs(filepath.Join(dir, "missing"), "jpeg", "")
	assert.Error(t, err)
}

type recordingEncoder struct {
	paths []string
	err   error
}

func (e *recordingEncoder) Encode(path string, _ *raster.Buffer) error {
	e.paths = append(e.paths, path)
	return e.err
}

func TestFileSink(t *testing.T) {
	enc := &recordingEncoder{}
	sink := NewFileSink("out", "tiff", enc, nil)
	buf := pattern(t, 3)

	require.NoError(t, sink.Emit(context.Background(), pipeline.Result{Sequence: 4, Name: "Prewitt3x3", Buffer: buf}))
	assert.Equal(t, []string{filepath.Join("out", "4_Prewitt3x3.tiff")}, enc.paths)

	boom := errors.New("disk full")
	enc.err = boom
	assert.ErrorIs(t, sink.Emit(context.Background(), pipeline.Result{Sequence: 5, Name: "Kirsch3x3", Buffer: buf}), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Emit(ctx, pipeline.Result{Sequence: 6, Name: "Sobel3x3", Buffer: buf}), context.Canceled)
	assert.Len(t, enc.paths, 2)
}
