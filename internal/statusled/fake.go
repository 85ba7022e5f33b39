package statusled

import "sync"

// FakeLED records LED transitions for test assertions. Safe for concurrent
// use: the timer callback toggles it from its own goroutine.
type FakeLED struct {
	mu sync.Mutex

	// states records every value passed to Set, in order.
	states []bool

	// SetError, if set, will be returned by Set.
	SetError error

	// closed tracks if Close was called.
	closed bool
}

// NewFakeLED creates a FakeLED for testing.
func NewFakeLED() *FakeLED {
	return &FakeLED{}
}

// Set records the requested state.
func (f *FakeLED) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.states = append(f.states, on)
	return nil
}

// States returns a copy of the recorded transitions.
func (f *FakeLED) States() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.states))
	copy(out, f.states)
	return out
}

// Close marks the LED as closed.
func (f *FakeLED) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeLED) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
