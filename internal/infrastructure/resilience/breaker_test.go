package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFailed = errors.New("failed")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *clock) {
	c := &clock{t: time.Unix(1000, 0)}
	b := New("test", settings)
	b.now = c.now
	return b, c
}

func run(b *Breaker, success bool) error {
	return b.Do(context.Background(), func(context.Context) error {
		if success {
			return nil
		}
		return errFailed
	})
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"stays closed below threshold", []bool{false, false}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
		{"success resets the streak", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(Settings{FailureThreshold: 3, Cooldown: time.Minute})
			for _, success := range tt.requests {
				_ = run(b, success)
			}
			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	b, _ := newTestBreaker(Settings{})

	require.NoError(t, run(b, true))
	counts := b.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.Successes)
	assert.Equal(t, uint32(0), counts.Failures)

	assert.ErrorIs(t, run(b, false), errFailed)
	counts = b.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.Failures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b, _ := newTestBreaker(Settings{FailureThreshold: 2, Cooldown: time.Minute})
	_ = run(b, false)
	_ = run(b, false)
	require.Equal(t, StateOpen, b.State())

	called := false
	err := b.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpen(t *testing.T) {
	b, c := newTestBreaker(Settings{FailureThreshold: 2, Cooldown: time.Minute, Probes: 2})
	_ = run(b, false)
	_ = run(b, false)

	c.advance(59 * time.Second)
	assert.Equal(t, StateOpen, b.State())
	c.advance(time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, run(b, true))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, run(b, true))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, c := newTestBreaker(Settings{FailureThreshold: 1, Cooldown: time.Minute})
	_ = run(b, false)
	c.advance(time.Minute)
	require.Equal(t, StateHalfOpen, b.State())

	_ = run(b, false)
	assert.Equal(t, StateOpen, b.State())

	c.advance(30 * time.Second)
	assert.ErrorIs(t, run(b, true), ErrOpen)
}

func TestBreakerHalfOpenLimitsProbes(t *testing.T) {
	b, c := newTestBreaker(Settings{FailureThreshold: 1, Cooldown: time.Second})
	_ = run(b, false)
	c.advance(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.ErrorIs(t, run(b, true), ErrOpen)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b, _ := newTestBreaker(Settings{FailureThreshold: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Do(ctx, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.Counts().Failures)
}

func TestBreakerCountsPanics(t *testing.T) {
	b, _ := newTestBreaker(Settings{FailureThreshold: 1})
	assert.Panics(t, func() {
		_ = b.Do(context.Background(), func(context.Context) error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestCall(t *testing.T) {
	b, _ := newTestBreaker(Settings{})
	v, err := Call(context.Background(), b, func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	b, c := newTestBreaker(Settings{
		FailureThreshold: 2,
		Cooldown:         time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = run(b, false)
	_ = run(b, false)
	c.advance(time.Second)
	_ = run(b, true)

	assert.Equal(t, []string{
		"test:closed->open",
		"test:open->half-open",
		"test:half-open->closed",
	}, transitions)
}
