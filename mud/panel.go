// Package mud holds one small state machine per MUD screen. Each panel
// loads its data from the server and replaces it with whatever the server
// returns after an action; no game numbers are computed here.
package mud

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrBusy is returned when an action is issued while the panel is waiting
// on the server.
var ErrBusy = errors.New("panel is busy")

// State is a panel's loading state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateActing
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateActing:
		return "acting"
	default:
		return "idle"
	}
}

// Panel is the shared load/act cycle of the MUD screens.
type Panel[T any] struct {
	name   string
	fetch  func(context.Context) (T, error)
	logger *log.Logger

	mu      sync.Mutex
	state   State
	data    T
	loaded  bool
	busy    bool
	gen     uint64
	lastErr error
	closed  bool
}

// NewPanel creates a panel that loads its data with fetch.
func NewPanel[T any](name string, fetch func(context.Context) (T, error), logger *log.Logger) *Panel[T] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Panel[T]{
		name:   name,
		fetch:  fetch,
		logger: logger.With("panel", name),
	}
}

// Load fetches the panel data. It is a no-op while another request is out.
func (p *Panel[T]) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.closed || p.busy {
		p.mu.Unlock()
		return nil
	}
	p.busy = true
	p.state = StateLoading
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	v, err := p.fetch(ctx)
	return p.settle(gen, v, err)
}

// Act runs an action against the server. The value the action returns
// becomes the panel data.
func (p *Panel[T]) Act(ctx context.Context, action func(context.Context, T) (T, error)) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.busy {
		p.mu.Unlock()
		return ErrBusy
	}
	p.busy = true
	p.state = StateActing
	p.gen++
	gen, cur := p.gen, p.data
	p.mu.Unlock()

	v, err := action(ctx, cur)
	return p.settle(gen, v, err)
}

func (p *Panel[T]) settle(gen uint64, v T, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen {
		return nil
	}
	p.busy = false
	p.state = StateReady
	p.lastErr = err
	if err != nil {
		p.logger.Warn("request failed", "err", err)
		return err
	}
	p.data = v
	p.loaded = true
	return nil
}

// Set replaces the data with a value the server returned elsewhere, e.g.
// the profile attached to a battle result.
func (p *Panel[T]) Set(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = v
	p.loaded = true
}

// Data returns the current data and whether it was ever loaded.
func (p *Panel[T]) Data() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data, p.loaded
}

// State returns the panel state.
func (p *Panel[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastError returns the error of the latest request.
func (p *Panel[T]) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Close detaches the panel; late responses are dropped.
func (p *Panel[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.busy = false
	p.state = StateIdle
}

// Name returns the panel name.
func (p *Panel[T]) Name() string { return p.name }
