package main

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/headless/internal/heartbeat"
	"github.com/sweeney/headless/internal/status"
	"github.com/sweeney/headless/internal/statusled"
)

func newTestBeater(pub *heartbeat.FakePublisher, led *statusled.FakeLED) (*beater, *status.Tracker) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := status.NewTracker(start, status.Config{
		IntervalSec: 60,
		Broker:      "tcp://broker:1883",
		Device:      "pi-shed",
		Iface:       "eth0",
	})
	clock := start
	b := &beater{
		device:    "pi-shed",
		ip:        "192.168.1.100",
		startTime: start,
		publisher: pub,
		mqtt:      pub,
		led:       led,
		tracker:   tr,
		log:       zap.NewNop(),
		now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
	return b, tr
}

func TestBeatPublishesAndTogglesLED(t *testing.T) {
	pub := heartbeat.NewFakePublisher()
	led := statusled.NewFakeLED()
	b, tr := newTestBeater(pub, led)

	beat(b)
	beat(b)
	beat(b)

	beats := pub.Beats()
	if len(beats) != 3 {
		t.Fatalf("beats: got %d, want 3", len(beats))
	}
	for i, bt := range beats {
		if bt.Seq != uint64(i+1) {
			t.Errorf("beat %d: seq got %d, want %d", i, bt.Seq, i+1)
		}
		if bt.Device != "pi-shed" {
			t.Errorf("beat %d: device got %q", i, bt.Device)
		}
		if bt.IP != "192.168.1.100" {
			t.Errorf("beat %d: ip got %q", i, bt.IP)
		}
	}
	// Uptime grows with the injected clock.
	if beats[0].Uptime != time.Minute || beats[2].Uptime != 3*time.Minute {
		t.Errorf("uptimes: got %v, %v, %v", beats[0].Uptime, beats[1].Uptime, beats[2].Uptime)
	}

	states := led.States()
	want := []bool{true, false, true}
	if len(states) != len(want) {
		t.Fatalf("led states: got %d, want %d", len(states), len(want))
	}
	for i, s := range states {
		if s != want[i] {
			t.Errorf("led state %d: got %t, want %t", i, s, want[i])
		}
	}

	snap := tr.Snapshot()
	if snap.Beats != 3 {
		t.Errorf("tracker beats: got %d, want 3", snap.Beats)
	}
	if !snap.MQTTConnected {
		t.Error("tracker should report connected")
	}
}

func TestBeatToleratesPublishFailure(t *testing.T) {
	pub := heartbeat.NewFakePublisher()
	pub.PublishError = errors.New("broker down")
	led := statusled.NewFakeLED()
	b, tr := newTestBeater(pub, led)

	// Must not panic; the next interval retries.
	beat(b)
	beat(b)

	if got := len(pub.Beats()); got != 0 {
		t.Errorf("recorded beats despite error: %d", got)
	}
	// The LED still toggles and the tracker still counts attempts.
	if got := len(led.States()); got != 2 {
		t.Errorf("led states: got %d, want 2", got)
	}
	if got := tr.Snapshot().Beats; got != 2 {
		t.Errorf("tracker beats: got %d, want 2", got)
	}
}

func TestBeatWithoutLEDOrTracker(t *testing.T) {
	pub := heartbeat.NewFakePublisher()
	b := &beater{
		device:    "pi-shed",
		startTime: time.Now(),
		publisher: pub,
		log:       zap.NewNop(),
		now:       time.Now,
	}

	// Optional collaborators absent: still publishes, still no panic.
	beat(b)
	if got := len(pub.Beats()); got != 1 {
		t.Fatalf("beats: got %d, want 1", got)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *intervalSec != 60 {
		t.Errorf("interval default: got %d, want 60", *intervalSec)
	}
	if *sleepChunk != 250*time.Millisecond {
		t.Errorf("sleep-chunk default: got %v, want 250ms", *sleepChunk)
	}
	if *immediate {
		t.Error("immediate should default to false (deferred first beat)")
	}
	if *ledPin >= 0 {
		t.Error("led should default to disabled")
	}
}
