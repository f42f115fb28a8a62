package pipeline

import (
	"context"
	"sync"
)

// Collector is a Sink that keeps every result in memory.
type Collector struct {
	mu      sync.Mutex
	results []Result
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Emit(_ context.Context, result Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
	return nil
}

// Results returns the collected results in emission order.
func (c *Collector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Result, len(c.results))
	copy(out, c.results)
	return out
}
