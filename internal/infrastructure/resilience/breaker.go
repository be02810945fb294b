package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without calling the guarded function while the
// breaker is open or its half-open probes are exhausted.
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker. Default 5.
	FailureThreshold uint32
	// Cooldown is how long the breaker stays open. Default 30s.
	Cooldown time.Duration
	// Probes is the number of calls allowed while half-open; all must
	// succeed to close. Default 1.
	Probes uint32
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from, to State)
}

// Counts holds the statistics of the current state
type Counts struct {
	Requests            uint32
	Successes           uint32
	Failures            uint32
	ConsecutiveFailures uint32
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
	inflight uint32
}

// New creates a circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Probes == 0 {
		settings.Probes = 1
	}
	return &Breaker{
		name:     name,
		settings: settings,
		now:      time.Now,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, moving an open breaker whose
// cooldown has elapsed to half-open.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Counts returns a copy of the counts for the current state
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Do runs fn if the breaker admits the call and records its outcome.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.record(false)
			panic(r)
		}
	}()
	err := fn(ctx)

	switch {
	case err == nil:
		b.record(true)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		b.release()
	default:
		b.record(false)
	}
	return err
}

// Call is Do for functions that return a value.
func Call[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := b.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.current() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.inflight+b.counts.Successes >= b.settings.Probes {
			return ErrOpen
		}
	}
	b.inflight++
	b.counts.Requests++
	return nil
}

func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inflight > 0 {
		b.inflight--
	}
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inflight > 0 {
		b.inflight--
	}

	state := b.current()
	if success {
		b.counts.Successes++
		b.counts.ConsecutiveFailures = 0
		if state == StateHalfOpen && b.counts.Successes >= b.settings.Probes {
			b.setState(StateClosed)
		}
		return
	}

	b.counts.Failures++
	b.counts.ConsecutiveFailures++
	switch state {
	case StateClosed:
		if b.counts.ConsecutiveFailures >= b.settings.FailureThreshold {
			b.setState(StateOpen)
		}
	case StateHalfOpen:
		b.setState(StateOpen)
	}
}

// current must be called with mu held.
func (b *Breaker) current() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.setState(StateHalfOpen)
	}
	return b.state
}

// setState must be called with mu held.
func (b *Breaker) setState(state State) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	b.counts = Counts{}
	if state == StateOpen {
		b.openedAt = b.now()
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, state)
	}
}
