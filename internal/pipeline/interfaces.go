package pipeline

import (
	"context"
	"time"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/raster"
)

// Result is one finished catalog entry, handed to the encoder side.
type Result struct {
	// Sequence starts at 1 and increases by one per emitted entry across the run.
	Sequence   int
	Name       string
	Descriptor *kernel.Descriptor
	Buffer     *raster.Buffer
}

// Sink receives results in catalog order. An error aborts the run.
type Sink interface {
	Emit(ctx context.Context, result Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, result Result) error

func (f SinkFunc) Emit(ctx context.Context, result Result) error {
	return f(ctx, result)
}

// Summary describes a completed (or aborted) run.
type Summary struct {
	Emitted  int
	Total    int
	Duration time.Duration
	Stages   map[string]time.Duration
}
