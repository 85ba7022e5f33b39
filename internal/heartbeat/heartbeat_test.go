package heartbeat

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatPayload(t *testing.T) {
	beat := Beat{
		Timestamp: time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		Device:    "pi-shed",
		Seq:       42,
		Uptime:    90*time.Minute + 500*time.Millisecond,
		IP:        "192.168.1.100",
	}

	data, err := FormatPayload(beat)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if p.Heartbeat.Timestamp != "2026-08-23T10:30:00Z" {
		t.Errorf("timestamp: got %q", p.Heartbeat.Timestamp)
	}
	if p.Heartbeat.Device != "pi-shed" {
		t.Errorf("device: got %q", p.Heartbeat.Device)
	}
	if p.Heartbeat.Seq != 42 {
		t.Errorf("seq: got %d", p.Heartbeat.Seq)
	}
	// Sub-second uptime is truncated.
	if p.Heartbeat.UptimeSeconds != 5400 {
		t.Errorf("uptime: got %d, want 5400", p.Heartbeat.UptimeSeconds)
	}
	if p.Heartbeat.IP != "192.168.1.100" {
		t.Errorf("ip: got %q", p.Heartbeat.IP)
	}
}

func TestFormatPayloadOmitsEmptyIP(t *testing.T) {
	data, err := FormatPayload(Beat{
		Timestamp: time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		Device:    "pi-shed",
		Seq:       1,
	})
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if _, present := raw["heartbeat"]["ip"]; present {
		t.Error("empty ip should be omitted")
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	beat := Beat{Device: "pi-shed", Seq: 1, Timestamp: time.Now()}
	if err := f.Publish(beat); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	beats := f.Beats()
	if len(beats) != 1 {
		t.Fatalf("beats: got %d, want 1", len(beats))
	}
	if beats[0].Seq != 1 {
		t.Errorf("seq: got %d, want 1", beats[0].Seq)
	}
	if len(f.Payloads()) != 1 {
		t.Errorf("payloads: got %d, want 1", len(f.Payloads()))
	}
	if !f.IsConnected() {
		t.Error("fake should report connected by default")
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	boom := errors.New("boom")
	f.PublishError = boom

	if err := f.Publish(Beat{}); !errors.Is(err, boom) {
		t.Errorf("err: got %v, want boom", err)
	}
	if len(f.Beats()) != 0 {
		t.Error("failed publish should not be recorded")
	}
}

func TestFakePublisherClose(t *testing.T) {
	f := NewFakePublisher()
	if f.Closed() {
		t.Error("closed before Close")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed() {
		t.Error("not closed after Close")
	}
}
