/*
Package resilience guards calls to remote snapshot stores.

A Breaker counts consecutive failures of the calls it wraps. Once the
threshold is reached it opens and rejects calls with ErrOpen until the
cooldown elapses; it then lets a limited number of probe calls through
(half-open). A successful probe round closes it again, a failed probe
reopens it.

	Closed --[threshold failures]-> Open --[cooldown]-> HalfOpen --[probes ok]-> Closed
	                                  ^                     |
	                                  +------[failure]------+

Cancellation by the caller's context is not counted as a failure.

# Usage

	breaker := resilience.New("postgres", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("breaker state changed", zap.String("store", name),
				zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	data, err := resilience.Call(ctx, breaker, func(ctx context.Context) ([]byte, error) {
		return fetch(ctx)
	})
*/
package resilience
