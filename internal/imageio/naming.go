package imageio

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FormatOf maps a file extension onto a format name.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".png":
		return "png", nil
	case ".tif", ".tiff":
		return "tiff", nil
	case ".bmp":
		return "bmp", nil
	case ".gif":
		return "gif", nil
	case ".webp":
		return "webp", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Extension is the file extension written for format, without the dot.
func Extension(format string) string {
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	default:
		return format
	}
}

// OutputName is "<sequence>_<kernel name>.<ext>".
func OutputName(sequence int, name, format string) string {
	return fmt.Sprintf("%d_%s.%s", sequence, name, Extension(format))
}

var resultName = regexp.MustCompile(`^[1-9][0-9]*_[A-Za-z0-9_]+\.([A-Za-z]+)$`)

// CleanOutputs deletes results of earlier runs from dir: files named like
// OutputName with a jpeg or tiff extension, or the extension of format.
// keep (normally the input image) is never removed. It returns the deleted paths.
func CleanOutputs(dir, format, keep string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	exts := map[string]bool{"jpeg": true, "tiff": true, Extension(format): true}

	keepAbs := ""
	if keep != "" {
		if abs, err := filepath.Abs(keep); err == nil {
			keepAbs = abs
		}
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m := resultName.FindStringSubmatch(entry.Name())
		if m == nil || !exts[strings.ToLower(m[1])] {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(path); err == nil && abs == keepAbs {
			continue
		}

		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}

	return removed, nil
}
