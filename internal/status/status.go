// Package status provides a thread-safe status tracker for the
// headless-heartbeat daemon. It is read by the HTTP status handlers.
package status

import (
	"sync"
	"time"
)

// Config contains daemon configuration for display.
type Config struct {
	IntervalSec  int
	SleepChunkMs int64
	Broker       string
	Device       string
	Iface        string
	HTTPAddr     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	StartTime     time.Time
	Now           time.Time
	Beats         uint64
	LastBeat      time.Time
	TimerRunning  bool
	IntervalSec   int
	MQTTConnected bool
	IP            string
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:   startTime,
			IntervalSec: cfg.IntervalSec,
			Config:      cfg,
		},
	}
}

// RecordBeat counts one published heartbeat.
func (t *Tracker) RecordBeat(at time.Time) {
	t.mu.Lock()
	t.snap.Beats++
	t.snap.LastBeat = at
	t.mu.Unlock()
}

// SetTimer sets the timer's running state and current interval.
func (t *Tracker) SetTimer(running bool, intervalSec int) {
	t.mu.Lock()
	t.snap.TimerRunning = running
	t.snap.IntervalSec = intervalSec
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetIP sets the reported interface address.
func (t *Tracker) SetIP(ip string) {
	t.mu.Lock()
	t.snap.IP = ip
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
