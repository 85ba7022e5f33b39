package timer

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a RepeatingTimer at construction.
type Option func(*RepeatingTimer)

// WithName sets the name used to identify the timer in logs and diagnostics.
func WithName(name string) Option {
	return func(t *RepeatingTimer) { t.name = name }
}

// WithSleepChunk sets the countdown tick granularity. Smaller chunks make the
// timer react faster to stop/restart/terminate at the cost of more wakeups.
// The chunk must be positive and no larger than the interval.
func WithSleepChunk(d time.Duration) Option {
	return func(t *RepeatingTimer) { t.sleepChunk = d }
}

// WithoutAutoStart suppresses launching the background loop at construction.
// The caller must then run the loop itself, typically `go t.Run()`.
func WithoutAutoStart() Option {
	return func(t *RepeatingTimer) { t.autoStart = false }
}

// WithImmediateFire makes Start and Restart invoke the callback once right
// away instead of deferring the first firing until a full interval elapses.
func WithImmediateFire() Option {
	return func(t *RepeatingTimer) { t.immediate = true }
}

// WithTickLogging enables a debug log line each whole second of countdown.
func WithTickLogging() Option {
	return func(t *RepeatingTimer) { t.tickLog = true }
}

// WithPayload binds an opaque value that is passed unchanged to every
// callback invocation. The timer never inspects it.
func WithPayload(payload any) Option {
	return func(t *RepeatingTimer) { t.payload = payload }
}

// WithLogger sets the logger lifecycle events are reported to. Defaults to a
// toolkit logger named after the constructing package.
func WithLogger(log *zap.Logger) Option {
	return func(t *RepeatingTimer) { t.log = log }
}
