package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/headless/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		IntervalSec:  60,
		SleepChunkMs: 250,
		Broker:       "tcp://192.168.1.200:1883",
		Device:       "pi-shed",
		Iface:        "eth0",
		HTTPAddr:     ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetTimer(true, 60)
	tr.SetMQTTConnected(true)
	tr.SetIP("192.168.1.100")
	tr.RecordBeat(time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC))

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Device != "pi-shed" {
		t.Errorf("device: got %q, want pi-shed", sj.Status.Device)
	}
	if !sj.Status.Timer.Running {
		t.Error("expected Timer.Running=true")
	}
	if sj.Status.Timer.IntervalSec != 60 {
		t.Errorf("Timer.IntervalSec: got %d, want 60", sj.Status.Timer.IntervalSec)
	}
	if sj.Status.Beats != 1 {
		t.Errorf("beats: got %d, want 1", sj.Status.Beats)
	}
	if sj.Status.LastBeat != "2026-01-01T00:01:00Z" {
		t.Errorf("last beat: got %q", sj.Status.LastBeat)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.IP != "192.168.1.100" {
		t.Errorf("ip: got %q", sj.Status.IP)
	}
	if sj.Status.Config.SleepChunkMs != 250 {
		t.Errorf("Config.SleepChunkMs: got %d, want 250", sj.Status.Config.SleepChunkMs)
	}
}

func TestJSONOmitsLastBeatBeforeFirst(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var raw map[string]map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["status"]["last_beat"]; present {
		t.Error("last_beat should be omitted before the first beat")
	}
}

func TestIndexEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetTimer(true, 60)
	tr.RecordBeat(time.Now())

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	if !strings.Contains(text, "headless-heartbeat pi-shed") {
		t.Errorf("index missing header: %q", text)
	}
	if !strings.Contains(text, "timer: running (interval 60s)") {
		t.Errorf("index missing timer line: %q", text)
	}
	if !strings.Contains(text, "beats: 1") {
		t.Errorf("index missing beats line: %q", text)
	}
}

func TestIndexNotFoundForOtherPaths(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
