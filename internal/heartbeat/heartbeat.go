// Package heartbeat publishes periodic device liveness beats to MQTT, with
// abstraction for testing.
package heartbeat

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic heartbeats are published on.
const Topic = "devices/headless/heartbeat"

// Beat is one liveness report.
type Beat struct {
	Timestamp time.Time
	Device    string
	Seq       uint64
	Uptime    time.Duration
	IP        string
}

// Publisher publishes beats to MQTT.
type Publisher interface {
	// Publish sends a beat to the broker.
	// Returns error if publishing fails (must not crash the daemon).
	Publish(beat Beat) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Payload is the MQTT message payload structure.
type Payload struct {
	Heartbeat BeatPayload `json:"heartbeat"`
}

// BeatPayload contains the beat details.
type BeatPayload struct {
	Timestamp     string `json:"timestamp"`
	Device        string `json:"device"`
	Seq           uint64 `json:"seq"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	IP            string `json:"ip,omitempty"`
}

// FormatPayload creates the JSON payload for a beat.
func FormatPayload(beat Beat) ([]byte, error) {
	payload := Payload{
		Heartbeat: BeatPayload{
			Timestamp:     beat.Timestamp.UTC().Format(time.RFC3339),
			Device:        beat.Device,
			Seq:           beat.Seq,
			UptimeSeconds: int64(beat.Uptime.Truncate(time.Second).Seconds()),
			IP:            beat.IP,
		},
	}
	return json.Marshal(payload)
}
