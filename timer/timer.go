// Package timer provides a repeating timer for headless device daemons that,
// unlike time.Ticker, can be paused, resumed, restarted, and have its interval
// changed while running. Control calls are safe from any goroutine and never
// block; the timer counts down in small sleep chunks so every control call
// takes effect within one chunk.
package timer

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/headless/logging"
)

// DefaultSleepChunk is the countdown tick granularity used unless overridden
// with WithSleepChunk. It bounds how quickly stop/restart/terminate take
// effect on the background loop.
const DefaultSleepChunk = 250 * time.Millisecond

// Construction and control errors.
var (
	ErrNilCallback     = errors.New("timer: callback is required")
	ErrInvalidInterval = errors.New("timer: interval must be positive")
	ErrInvalidChunk    = errors.New("timer: sleep chunk must be positive and no larger than the interval")
	ErrTerminated      = errors.New("timer: terminated")
)

// Callback is invoked on each timer expiry with the payload bound at
// construction (see WithPayload). It runs synchronously on the timer's
// background goroutine, so a slow callback delays subsequent ticks; hand off
// to your own goroutine if the work can block.
//
// Panics are not recovered: a panicking callback unwinds the timer goroutine
// and crashes the process rather than silently hiding the bug.
type Callback func(payload any)

type state uint8

const (
	stateIdle state = iota
	stateRunning
	stateTerminated
)

// RepeatingTimer fires a callback every interval. The zero value is not
// usable; construct with New.
//
// Lifecycle: the background loop starts at construction (unless
// WithoutAutoStart) but the countdown only begins with Start. The timer may
// move between running and stopped any number of times until Terminate, after
// which it is permanently inert.
type RepeatingTimer struct {
	name     string
	callback Callback
	payload  any
	log      *zap.Logger

	mu         sync.Mutex
	state      state
	interval   time.Duration
	sleepChunk time.Duration
	cd         countdown
	immediate  bool
	tickLog    bool
	autoStart  bool

	loopStarted atomic.Bool
	wakeC       chan struct{} // pulses the loop out of its idle wait
	resetC      chan struct{} // requests a countdown rearm without stopping
	terminateC  chan struct{} // closed exactly once by Terminate
	doneC       chan struct{} // closed when the background loop exits
}

// New creates a RepeatingTimer that invokes callback every interval once
// started. A nil callback or non-positive interval is a construction error
// and the returned timer must not be used.
func New(interval time.Duration, callback Callback, opts ...Option) (*RepeatingTimer, error) {
	if callback == nil {
		return nil, ErrNilCallback
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	t := &RepeatingTimer{
		callback:   callback,
		interval:   interval,
		sleepChunk: DefaultSleepChunk,
		autoStart:  true,
		wakeC:      make(chan struct{}, 1),
		resetC:     make(chan struct{}, 1),
		terminateC: make(chan struct{}),
		doneC:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sleepChunk <= 0 || t.sleepChunk > t.interval {
		return nil, ErrInvalidChunk
	}
	if t.name == "" {
		t.name = "repeating-timer"
	}
	if t.log == nil {
		t.log = logging.New(logging.Config{Name: logging.CallerName(2)})
	}
	t.log = t.log.With(zap.String("timer", t.name))
	t.cd = makeCountdown(t.interval, t.sleepChunk)

	if t.autoStart {
		go t.Run()
	}
	return t, nil
}

// Run executes the background countdown loop until Terminate. It is started
// automatically at construction unless WithoutAutoStart was given, in which
// case the caller owns the goroutine. Calling Run on a timer whose loop is
// already running is a usage error and is ignored.
func (t *RepeatingTimer) Run() {
	if !t.loopStarted.CompareAndSwap(false, true) {
		t.log.Warn("run ignored: background loop already started")
		return
	}
	defer close(t.doneC)

	wait := time.NewTimer(t.chunk())
	defer wait.Stop()

	for {
		t.mu.Lock()
		st := t.state
		t.mu.Unlock()

		switch st {
		case stateTerminated:
			return
		case stateIdle:
			// Idle wait: no countdown progress, block until woken or
			// terminated.
			select {
			case <-t.terminateC:
				return
			case <-t.wakeC:
			}
		case stateRunning:
			t.tickOnce(wait)
		}
	}
}

// tickOnce performs one bounded wait of up to one sleep chunk. A reset pulse
// rearms the countdown without consuming a tick; an undisturbed wait consumes
// one tick and fires the callback when the countdown expires.
func (t *RepeatingTimer) tickOnce(wait *time.Timer) {
	t.mu.Lock()
	chunk := t.sleepChunk
	if t.tickLog && t.cd.onSecondBoundary(chunk) {
		t.log.Debug("countdown",
			zap.Duration("remaining", t.cd.left(chunk)),
			zap.Duration("interval", t.interval),
			zap.Duration("sleep_chunk", chunk))
	}
	t.mu.Unlock()

	resetTimer(wait, chunk)
	select {
	case <-t.terminateC:
		return
	case <-t.resetC:
		t.mu.Lock()
		t.cd.reset()
		t.mu.Unlock()
		return
	case <-wait.C:
	}

	var fire bool
	var payload any
	t.mu.Lock()
	if t.state == stateRunning {
		fire = t.cd.tick()
		payload = t.payload
	}
	t.mu.Unlock()
	if fire {
		t.callback(payload)
	}
}

// Start begins the countdown. With immediate firing enabled the callback is
// invoked once on the caller's goroutine before the running state is entered.
// Starting an already-running timer only logs.
func (t *RepeatingTimer) Start() {
	t.mu.Lock()
	switch t.state {
	case stateTerminated:
		t.mu.Unlock()
		t.log.Warn("start ignored: timer terminated")
		return
	case stateRunning:
		interval := t.interval
		t.mu.Unlock()
		t.log.Info("timer already started", zap.Duration("interval", interval))
		return
	}
	interval := t.interval
	fire := t.immediate && interval > 0
	payload := t.payload
	t.mu.Unlock()

	if fire {
		t.callback(payload)
	}

	t.mu.Lock()
	if t.state == stateIdle {
		t.state = stateRunning
	}
	t.mu.Unlock()
	t.wake()
	t.log.Info("timer started", zap.Duration("interval", interval))
}

// Stop pauses the countdown. Progress is preserved: a later Start resumes
// from the remaining value rather than a full interval. Use Restart to force
// a full interval.
func (t *RepeatingTimer) Stop() {
	t.mu.Lock()
	if t.state == stateTerminated {
		t.mu.Unlock()
		t.log.Warn("stop ignored: timer terminated")
		return
	}
	t.state = stateIdle
	interval := t.interval
	remaining := t.cd.left(t.sleepChunk)
	t.mu.Unlock()
	t.log.Info("timer stopped",
		zap.Duration("interval", interval),
		zap.Duration("remaining", remaining))
}

// Restart rearms a full interval regardless of progress. If the timer is
// running the background loop picks the rearm up within one sleep chunk; if
// it is stopped the timer transitions to running. Immediate firing applies as
// in Start.
func (t *RepeatingTimer) Restart() {
	t.mu.Lock()
	if t.state == stateTerminated {
		t.mu.Unlock()
		t.log.Warn("restart ignored: timer terminated")
		return
	}
	interval := t.interval
	fire := t.immediate && interval > 0
	payload := t.payload
	t.mu.Unlock()

	if fire {
		t.callback(payload)
	}

	t.mu.Lock()
	switch t.state {
	case stateTerminated:
		t.mu.Unlock()
		t.log.Warn("restart ignored: timer terminated")
		return
	case stateRunning:
		t.mu.Unlock()
		t.pulseReset()
	default:
		t.cd.reset()
		t.state = stateRunning
		t.mu.Unlock()
		t.wake()
	}
	t.log.Info("timer restarted", zap.Duration("interval", interval))
}

// ChangeInterval sets a new interval in whole seconds and restarts the
// countdown. Only positive values are accepted; an invalid value is logged,
// ErrInvalidInterval is returned, and the previous interval is retained.
// This is a runtime control call, never fatal — the caller may retry.
func (t *RepeatingTimer) ChangeInterval(seconds int) error {
	if t.Terminated() {
		t.log.Warn("change interval ignored: timer terminated")
		return ErrTerminated
	}
	if seconds <= 0 {
		t.log.Error("invalid interval requested, must be a positive integer of seconds",
			zap.Int("seconds", seconds))
		return ErrInvalidInterval
	}
	t.setInterval(time.Duration(seconds) * time.Second)
	return nil
}

// setInterval applies a validated interval, rearms the countdown and
// restarts. Kept separate from ChangeInterval so sub-second intervals remain
// reachable in tests.
func (t *RepeatingTimer) setInterval(interval time.Duration) {
	t.mu.Lock()
	old := t.interval
	t.interval = interval
	t.cd.rearm(interval, t.sleepChunk)
	t.mu.Unlock()
	t.log.Info("timer interval changed",
		zap.Duration("from", old),
		zap.Duration("to", interval))
	t.Restart()
}

// Terminate stops the timer and permanently shuts down the background loop.
// A terminated timer cannot be restarted; any further control call is a
// usage error, reported as a logged warning with no effect (ChangeInterval
// additionally returns ErrTerminated).
func (t *RepeatingTimer) Terminate() {
	t.mu.Lock()
	if t.state == stateTerminated {
		t.mu.Unlock()
		t.log.Warn("terminate ignored: timer already terminated")
		return
	}
	t.state = stateTerminated
	t.mu.Unlock()
	close(t.terminateC)
	t.log.Info("timer terminated")
}

// Name returns the timer's diagnostic name.
func (t *RepeatingTimer) Name() string { return t.name }

// Interval returns the current countdown interval.
func (t *RepeatingTimer) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// Remaining returns how much of the current interval is left to count down.
func (t *RepeatingTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cd.left(t.sleepChunk)
}

// Running reports whether the countdown is active.
func (t *RepeatingTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateRunning
}

// Terminated reports whether Terminate has been called.
func (t *RepeatingTimer) Terminated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateTerminated
}

// Done returns a channel that is closed once the background loop has exited.
func (t *RepeatingTimer) Done() <-chan struct{} { return t.doneC }

func (t *RepeatingTimer) chunk() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sleepChunk
}

func (t *RepeatingTimer) wake() {
	select {
	case t.wakeC <- struct{}{}:
	default:
	}
}

func (t *RepeatingTimer) pulseReset() {
	select {
	case t.resetC <- struct{}{}:
	default:
	}
}

// resetTimer safely stops, drains, and rearms a timer for reuse.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		drainTimer(t)
	}
	t.Reset(d)
}

func drainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}
