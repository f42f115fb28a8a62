package imageio

import (
	"context"
	"fmt"
	"path/filepath"

	"kernel-convolver/internal/logger"
	"kernel-convolver/internal/pipeline"
)

// FileSink writes each result to Dir as OutputName(sequence, name, format).
type FileSink struct {
	dir     string
	format  string
	encoder Encoder
	logger  logger.Logger
}

func NewFileSink(dir, format string, encoder Encoder, log logger.Logger) *FileSink {
	if log == nil {
		log = logger.Nop()
	}
	return &FileSink{dir: dir, format: format, encoder: encoder, logger: log}
}

func (s *FileSink) Emit(ctx context.Context, result pipeline.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.dir, OutputName(result.Sequence, result.Name, s.format))
	if err := s.encoder.Encode(path, result.Buffer); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	s.logger.Info("FileSink", "saved image file", map[string]interface{}{
		"path":     path,
		"sequence": result.Sequence,
	})
	return nil
}
