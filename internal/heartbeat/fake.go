package heartbeat

import "sync"

// FakePublisher records published beats for test assertions. Safe for
// concurrent use: the timer callback publishes from its own goroutine.
type FakePublisher struct {
	mu sync.Mutex

	// beats contains all beats that were published.
	beats []Beat

	// payloads contains the JSON payloads that were published.
	payloads [][]byte

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// Connected controls the return value of IsConnected.
	Connected bool

	// closed tracks if Close was called.
	closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Connected: true}
}

// Publish records the beat.
func (f *FakePublisher) Publish(beat Beat) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishError != nil {
		return f.PublishError
	}

	f.beats = append(f.beats, beat)

	payload, err := FormatPayload(beat)
	if err != nil {
		return err
	}
	f.payloads = append(f.payloads, payload)

	return nil
}

// Beats returns a copy of the recorded beats.
func (f *FakePublisher) Beats() []Beat {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Beat, len(f.beats))
	copy(out, f.beats)
	return out
}

// Payloads returns a copy of the recorded JSON payloads.
func (f *FakePublisher) Payloads() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.payloads))
	copy(out, f.payloads)
	return out
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakePublisher) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
