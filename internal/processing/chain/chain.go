package chain

import (
	"context"
	"fmt"

	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/raster"
)

// ProcessingStep is one stage of a per-kernel pass. Apply must return a new
// buffer and leave its input untouched.
type ProcessingStep interface {
	Apply(ctx context.Context, input *raster.Buffer, d *kernel.Descriptor) (*raster.Buffer, error)
	Name() string
	ShouldExecute(d *kernel.Descriptor) bool
}

// StepObserver is notified after every executed step.
type StepObserver func(step string, output *raster.Buffer)

type ProcessingChain struct {
	steps    []ProcessingStep
	observer StepObserver
}

func NewProcessingChain(steps []ProcessingStep) *ProcessingChain {
	return &ProcessingChain{
		steps: steps,
	}
}

// Observe registers fn to be called after each executed step.
func (pc *ProcessingChain) Observe(fn StepObserver) {
	pc.observer = fn
}

// Execute threads input through every step the descriptor enables. Steps run
// strictly in order, each on the complete output of the previous one.
func (pc *ProcessingChain) Execute(ctx context.Context, input *raster.Buffer, d *kernel.Descriptor) (*raster.Buffer, error) {
	current := input

	for _, step := range pc.steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !step.ShouldExecute(d) {
			continue
		}

		result, err := step.Apply(ctx, current, d)
		if err != nil {
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		if pc.observer != nil {
			pc.observer(step.Name(), result)
		}

		current = result
	}

	return current, nil
}

func (pc *ProcessingChain) AddStep(step ProcessingStep) {
	pc.steps = append(pc.steps, step)
}

func (pc *ProcessingChain) StepCount() int {
	return len(pc.steps)
}

func (pc *ProcessingChain) GetStepNames() []string {
	names := make([]string, len(pc.steps))
	for i, step := range pc.steps {
		names[i] = step.Name()
	}
	return names
}

// Plan lists the names of the steps that would run for d.
func (pc *ProcessingChain) Plan(d *kernel.Descriptor) []string {
	var names []string
	for _, step := range pc.steps {
		if step.ShouldExecute(d) {
			names = append(names, step.Name())
		}
	}
	return names
}
