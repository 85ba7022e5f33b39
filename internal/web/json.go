package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/headless/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Device        string     `json:"device"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Timer         TimerJSON  `json:"timer"`
	Beats         uint64     `json:"beats"`
	LastBeat      string     `json:"last_beat,omitempty"`
	MQTT          MQTTStatus `json:"mqtt"`
	IP            string     `json:"ip,omitempty"`
	Config        ConfigJSON `json:"config"`
}

// TimerJSON reports the heartbeat timer state.
type TimerJSON struct {
	Running     bool `json:"running"`
	IntervalSec int  `json:"interval_sec"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	IntervalSec  int    `json:"interval_sec"`
	SleepChunkMs int64  `json:"sleep_chunk_ms"`
	Broker       string `json:"broker"`
	Iface        string `json:"iface"`
	HTTPAddr     string `json:"http_addr"`
}

func formatJSON(snap status.Snapshot) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			Device:        snap.Config.Device,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			Timer: TimerJSON{
				Running:     snap.TimerRunning,
				IntervalSec: snap.IntervalSec,
			},
			Beats: snap.Beats,
			MQTT:  MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			IP:    snap.IP,
			Config: ConfigJSON{
				IntervalSec:  snap.Config.IntervalSec,
				SleepChunkMs: snap.Config.SleepChunkMs,
				Broker:       snap.Config.Broker,
				Iface:        snap.Config.Iface,
				HTTPAddr:     snap.Config.HTTPAddr,
			},
		},
	}

	if !snap.LastBeat.IsZero() {
		sj.Status.LastBeat = snap.LastBeat.UTC().Format(time.RFC3339)
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
