package pipeline

import (
	"context"
	"sync"
	"time"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/processing/chain"
	"kernel-convolver/internal/raster"
)

// StageTimer accumulates wall time per stage name.
type StageTimer struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
}

func NewStageTimer() *StageTimer {
	return &StageTimer{
		timings: make(map[string][]time.Duration),
	}
}

func (st *StageTimer) Record(stage string, d time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.timings[stage] = append(st.timings[stage], d)
}

// Time runs fn and records its duration under stage.
func (st *StageTimer) Time(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	st.Record(stage, time.Since(start))
	return err
}

func (st *StageTimer) GetTimings(stage string) []time.Duration {
	st.mu.RLock()
	defer st.mu.RUnlock()

	timings := st.timings[stage]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

// Totals returns the summed duration per stage.
func (st *StageTimer) Totals() map[string]time.Duration {
	st.mu.RLock()
	defer st.mu.RUnlock()

	result := make(map[string]time.Duration, len(st.timings))
	for stage, timings := range st.timings {
		var total time.Duration
		for _, d := range timings {
			total += d
		}
		result[stage] = total
	}
	return result
}

func (st *StageTimer) GetAverageTime(stage string) time.Duration {
	timings := st.GetTimings(stage)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}

func (st *StageTimer) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.timings = make(map[string][]time.Duration)
}

// timedStep records the duration of every Apply of the wrapped step.
type timedStep struct {
	chain.ProcessingStep
	timer *StageTimer
}

func (s timedStep) Apply(ctx context.Context, input *raster.Buffer, d *kernel.Descriptor) (*raster.Buffer, error) {
	var out *raster.Buffer
	err := s.timer.Time(s.Name(), func() error {
		var err error
		out, err = s.ProcessingStep.Apply(ctx, input, d)
		return err
	})
	return out, err
}
