package pipeline

import (
	"context"
	"fmt"
	"time"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/logger"
	"kernel-convolver/internal/processing/chain"
	"kernel-convolver/internal/processing/filters"
	"kernel-convolver/internal/raster"
)

const stageEmit = "emit"

// Coordinator runs every catalog entry against one source image:
// grayscale (optional), blur pre-pass (optional), main convolution, emit.
type Coordinator struct {
	catalog *kernel.Catalog
	chain   *chain.ProcessingChain
	sink    Sink
	logger  logger.Logger
	timer   *StageTimer
}

// NewCoordinator wires the per-entry chain. Blur references resolve against
// resolver, which is normally the full catalog even when catalog is a subset.
func NewCoordinator(catalog *kernel.Catalog, resolver filters.Resolver, convolver *filters.Convolver, sink Sink, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	if resolver == nil {
		resolver = catalog
	}

	timer := NewStageTimer()
	steps := []chain.ProcessingStep{
		filters.NewGrayscaleConverter(),
		filters.NewBlurFilter(convolver, resolver),
		filters.NewConvolutionFilter(convolver),
	}
	for i, step := range steps {
		steps[i] = timedStep{ProcessingStep: step, timer: timer}
	}

	processing := chain.NewProcessingChain(steps)
	processing.Observe(func(step string, output *raster.Buffer) {
		log.Debug("Pipeline", "step completed", map[string]interface{}{
			"step":   step,
			"width":  output.Width,
			"height": output.Height,
		})
	})

	return &Coordinator{
		catalog: catalog,
		chain:   processing,
		sink:    sink,
		logger:  log,
		timer:   timer,
	}
}

// Timer exposes the per-stage timings of the runs made so far.
func (c *Coordinator) Timer() *StageTimer {
	return c.timer
}

// Run processes the catalog in declaration order and stops at the first
// failing entry. src is only read; every entry starts from the same pixels.
func (c *Coordinator) Run(ctx context.Context, src *raster.Buffer) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Total: c.catalog.Len()}
	defer func() {
		summary.Duration = time.Since(start)
		summary.Stages = c.timer.Totals()
	}()

	if err := src.Validate(); err != nil {
		return summary, fmt.Errorf("source image: %w", err)
	}

	sequence := 1
	for _, d := range c.catalog.Entries() {
		c.logger.Info("Pipeline", "applying "+d.Describe(), map[string]interface{}{
			"sequence": sequence,
			"size":     d.Size(),
		})

		out, err := c.chain.Execute(ctx, src, d)
		if err != nil {
			c.logger.Error("Pipeline", err, map[string]interface{}{"entry": d.Name()})
			return summary, fmt.Errorf("entry %q: %w", d.Name(), err)
		}

		result := Result{
			Sequence:   sequence,
			Name:       d.Name(),
			Descriptor: d,
			Buffer:     out,
		}
		if err := c.timer.Time(stageEmit, func() error { return c.sink.Emit(ctx, result) }); err != nil {
			c.logger.Error("Pipeline", err, map[string]interface{}{"entry": d.Name()})
			return summary, fmt.Errorf("entry %q: emit: %w", d.Name(), err)
		}

		c.logger.Debug("Pipeline", "entry completed", map[string]interface{}{
			"entry":    d.Name(),
			"sequence": sequence,
			"stages":   c.chain.Plan(d),
		})

		summary.Emitted++
		sequence++
	}

	c.logger.Info("Pipeline", "run completed", map[string]interface{}{
		"emitted":  summary.Emitted,
		"duration": time.Since(start).String(),
	})

	return summary, nil
}
