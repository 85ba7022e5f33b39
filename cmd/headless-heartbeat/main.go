// Command headless-heartbeat publishes periodic MQTT liveness beats from a
// headless device, driven by the toolkit's repeating timer. Each beat carries
// the device name, sequence number, uptime and interface address, and
// optionally toggles a GPIO status LED so the box can be checked at a glance.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sweeney/headless/internal/heartbeat"
	"github.com/sweeney/headless/internal/status"
	"github.com/sweeney/headless/internal/statusled"
	"github.com/sweeney/headless/internal/web"
	"github.com/sweeney/headless/logging"
	"github.com/sweeney/headless/netinfo"
	"github.com/sweeney/headless/serialport"
	"github.com/sweeney/headless/timer"
)

const (
	intervalDesc = "The heartbeat interval in whole seconds."
	chunkDesc    = "The timer tick granularity. Smaller values make shutdown " +
		"and interval changes take effect faster at the cost of more wakeups."
	immediateDesc = "Publish the first beat immediately on start instead of " +
		"waiting one full interval."
	brokerDesc = "The MQTT broker address."
	deviceDesc = "The device name reported in beats. Defaults to the hostname."
	ifaceDesc  = "The network interface whose IPv4 address is reported, " +
		"e.g. eth0 or wlan0."
	ledPinDesc = "The BCM pin number of a status LED toggled on each beat. " +
		"Negative disables the LED."
	httpDesc   = "HTTP status address (empty to disable)."
	serialDesc = "A serial port to validate at startup as an environment " +
		"sanity check, e.g. /dev/ttyUSB0. Empty skips the check."
	logFileDesc = "Path of a wrapping log file. Empty logs to console only."
	verboseDesc = "Sets the logging level to verbose."
	tickDesc    = "Log the timer countdown every second (requires --verbose)."
)

var (
	help        = flag.Bool("help", false, "")
	intervalSec = flag.IntP("interval", "i", 60, intervalDesc)
	sleepChunk  = flag.Duration("sleep-chunk", timer.DefaultSleepChunk, chunkDesc)
	immediate   = flag.Bool("immediate", false, immediateDesc)
	broker      = flag.StringP("broker", "b", "tcp://192.168.1.200:1883", brokerDesc)
	device      = flag.StringP("name", "n", "", deviceDesc)
	iface       = flag.String("iface", "eth0", ifaceDesc)
	ledPin      = flag.Int("led-pin", -1, ledPinDesc)
	httpAddr    = flag.String("http", ":8080", httpDesc)
	serialCheck = flag.String("serial-check", "", serialDesc)
	logFile     = flag.String("log-file", "", logFileDesc)
	verbose     = flag.BoolP("verbose", "v", false, verboseDesc)
	tickLog     = flag.Bool("tick-log", false, tickDesc)
)

func main() {
	flag.CommandLine.MarkHidden("help")
	flag.Parse()
	if *help {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprint(os.Stderr, flag.CommandLine.FlagUsagesWrapped(120))
		return
	}

	if *logFile != "" {
		if err := logging.EnsureDir(*logFile); err != nil {
			fmt.Fprintf(os.Stderr, "log file: %v\n", err)
			os.Exit(1)
		}
	}
	log := logging.New(logging.Config{
		Name:     "headless-heartbeat",
		Filename: *logFile,
		Debug:    *verbose,
	})
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	name := *device
	if name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return errors.Wrap(err, "resolve hostname")
		}
		name = hostname
	}
	if *intervalSec <= 0 {
		return errors.Errorf("interval must be a positive number of seconds, got %d", *intervalSec)
	}

	// Environment sanity check only: a missing port is reported, not fatal.
	if *serialCheck != "" {
		found, detail, err := serialport.Validate(*serialCheck)
		switch {
		case err != nil:
			log.Warn("serial check failed", zap.String("port", *serialCheck), zap.Error(err))
		case found:
			log.Info("serial check ok", zap.String("detail", detail))
		default:
			log.Warn("serial port not found",
				zap.String("port", *serialCheck),
				zap.String("detail", detail))
		}
	}

	ip, err := netinfo.IPAddress(*iface)
	if err != nil {
		log.Warn("interface address unavailable", zap.String("iface", *iface), zap.Error(err))
	}

	publisher, err := heartbeat.NewRealPublisher(*broker, "headless-heartbeat-"+name)
	if err != nil {
		return errors.Wrapf(err, "connect to broker %s", *broker)
	}
	defer publisher.Close()

	var led statusled.LED
	if *ledPin >= 0 {
		realLED, err := statusled.NewRealLED(*ledPin)
		if err != nil {
			log.Warn("status LED unavailable", zap.Int("pin", *ledPin), zap.Error(err))
		} else {
			led = realLED
			defer realLED.Close()
		}
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		IntervalSec:  *intervalSec,
		SleepChunkMs: sleepChunk.Milliseconds(),
		Broker:       *broker,
		Device:       name,
		Iface:        *iface,
		HTTPAddr:     *httpAddr,
	})
	tracker.SetIP(ip)

	if *httpAddr != "" {
		srv := web.New(*httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("http server error", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("http status server listening", zap.String("addr", *httpAddr))
	}

	b := &beater{
		device:    name,
		ip:        ip,
		startTime: time.Now(),
		publisher: publisher,
		mqtt:      publisher,
		led:       led,
		tracker:   tracker,
		log:       log,
		now:       time.Now,
	}

	opts := []timer.Option{
		timer.WithName("heartbeat"),
		timer.WithSleepChunk(*sleepChunk),
		timer.WithPayload(b),
		timer.WithLogger(log),
	}
	if *immediate {
		opts = append(opts, timer.WithImmediateFire())
	}
	if *tickLog {
		opts = append(opts, timer.WithTickLogging())
	}
	t, err := timer.New(time.Duration(*intervalSec)*time.Second, beat, opts...)
	if err != nil {
		return errors.Wrap(err, "create heartbeat timer")
	}
	t.Start()
	tracker.SetTimer(t.Running(), *intervalSec)

	log.Info("started",
		zap.String("device", name),
		zap.Int("interval_sec", *intervalSec),
		zap.Duration("sleep_chunk", *sleepChunk),
		zap.String("broker", *broker))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	log.Info("shutting down", zap.String("signal", s.String()))

	t.Terminate()
	<-t.Done()
	tracker.SetTimer(false, *intervalSec)
	if led != nil {
		if err := led.Set(false); err != nil {
			log.Warn("clear LED", zap.Error(err))
		}
	}
	return nil
}

// beater carries everything one heartbeat needs. It is handed to the timer
// as its opaque payload and comes back on every firing.
type beater struct {
	device    string
	ip        string
	startTime time.Time
	publisher heartbeat.Publisher
	mqtt      heartbeat.ConnectionStatus
	led       statusled.LED
	tracker   *status.Tracker
	log       *zap.Logger
	now       func() time.Time

	seq   atomic.Uint64
	ledOn atomic.Bool
}

// beat is the timer callback: publish one liveness report and toggle the LED.
// Publish failures are logged and tolerated — the next interval retries.
func beat(payload any) {
	b := payload.(*beater)
	t := b.now()

	bt := heartbeat.Beat{
		Timestamp: t,
		Device:    b.device,
		Seq:       b.seq.Add(1),
		Uptime:    t.Sub(b.startTime),
		IP:        b.ip,
	}
	if err := b.publisher.Publish(bt); err != nil {
		b.log.Error("publish heartbeat", zap.Uint64("seq", bt.Seq), zap.Error(err))
	} else {
		b.log.Debug("heartbeat published",
			zap.Uint64("seq", bt.Seq),
			zap.Duration("uptime", bt.Uptime))
	}

	if b.led != nil {
		on := !b.ledOn.Load()
		if err := b.led.Set(on); err != nil {
			b.log.Warn("toggle LED", zap.Error(err))
		} else {
			b.ledOn.Store(on)
		}
	}

	if b.tracker != nil {
		b.tracker.RecordBeat(t)
		if b.mqtt != nil {
			b.tracker.SetMQTTConnected(b.mqtt.IsConnected())
		}
	}
}
