package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"kernel-convolver/internal/logger"
)

// Manager cancels its context on SIGINT/SIGTERM or an explicit Shutdown.
type Manager struct {
	logger  logger.Logger
	mu      sync.Mutex
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	signals chan os.Signal
}

func NewManager(parent context.Context, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger: log,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Listen starts watching for termination signals until Shutdown is called.
func (m *Manager) Listen() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.signals != nil {
		return
	}
	m.signals = make(chan os.Signal, 1)
	signal.Notify(m.signals, os.Interrupt, syscall.SIGTERM)

	go func(sigChan <-chan os.Signal) {
		select {
		case sig := <-sigChan:
			m.logger.Warning("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}(m.signals)
}

// Shutdown cancels the context and stops signal delivery. Safe to call more than once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}

	if m.signals != nil {
		signal.Stop(m.signals)
	}
	m.cancel()

	m.logger.Debug("ShutdownManager", "shutdown sequence completed", nil)
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
