package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kernel-convolver/internal/imageio"
	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPrintsCatalogInOrder(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	catalog, err := kernel.Standard()
	require.NoError(t, err)
	require.Len(t, lines, catalog.Len())

	assert.Contains(t, lines[0], "Sharpen3x3")
	assert.Contains(t, lines[len(lines)-1], "Kirsch3x3_Grayscale")
	assert.Contains(t, lines[len(lines)-1], "grayscale")
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	buf, err := raster.New(6, 4, 3)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = byte(i * 11)
	}
	path := filepath.Join(dir, "0_input.png")
	require.NoError(t, imageio.NewGoCodec(95).Encode(path, buf))
	return path
}

func TestRunWritesOneFilePerSelectedKernel(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	stale := filepath.Join(dir, "9_Old.jpeg")
	require.NoError(t, os.WriteFile(stale, nil, 0o644))

	var logs bytes.Buffer
	cmd := newRootCommand()
	cmd.SetErr(&logs)
	cmd.SetArgs([]string{
		input,
		"--codec", "go",
		"--format", "png",
		"--output", dir,
		"--only", "Sobel3x3_Grayscale,Sharpen3x3",
		"--workers", "2",
		"--log-format", "json",
	})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(dir, "1_Sharpen3x3.png"))
	assert.FileExists(t, filepath.Join(dir, "2_Sobel3x3_Grayscale.png"))
	assert.FileExists(t, input)
	assert.NoFileExists(t, stale)

	assert.Contains(t, logs.String(), "loaded image")
	assert.Contains(t, logs.String(), "saved image file")

	got, err := imageio.NewGoCodec(95).Decode(filepath.Join(dir, "2_Sobel3x3_Grayscale.png"), 3)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Width)
	assert.Equal(t, 4, got.Height)
}

func TestRunFailsOnUnknownKernel(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	cmd := newRootCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{input, "--codec", "go", "-o", dir, "--only", "Emboss3x3"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, kernel.ErrUnknownKernel)
}

func TestRunRejectsInvalidFlags(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"in.png", "--format", "gif"})
	assert.Error(t, cmd.Execute())
}
