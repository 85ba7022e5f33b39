// Package logging builds the leveled, structured loggers the toolkit reports
// through: a console core, optionally teed with a size-wrapped rotating log
// file. Timestamps are UTC. The default level is info; debug enables the
// timer's tick traces.
package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Defaults for the rotating file sink.
const (
	DefaultFileSizeMB = 5
	DefaultBackups    = 2
)

// Config controls logger construction.
type Config struct {
	// Name identifies the logger. Empty means the calling package's name.
	Name string

	// Filename enables the rotating file sink when non-empty.
	Filename string

	// FileSizeMB is the size at which the file wraps. 0 means DefaultFileSizeMB.
	FileSizeMB int

	// Backups is how many wrapped files to keep. 0 means DefaultBackups.
	Backups int

	// Debug lowers the level from info to debug.
	Debug bool
}

// New builds a logger from cfg. Construction cannot fail: a bad file path
// surfaces as write errors on the file sink, never as a nil logger.
func New(cfg Config) *zap.Logger {
	name := cfg.Name
	if name == "" {
		name = CallerName(2)
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	enc := zapcore.NewConsoleEncoder(encoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level),
	}

	if cfg.Filename != "" {
		sizeMB := cfg.FileSizeMB
		if sizeMB <= 0 {
			sizeMB = DefaultFileSizeMB
		}
		backups := cfg.Backups
		if backups <= 0 {
			backups = DefaultBackups
		}
		rotating := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    sizeMB,
			MaxBackups: backups,
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotating), level))
	}

	core := cores[0]
	if len(cores) > 1 {
		core = zapcore.NewTee(cores...)
	}

	return zap.New(core, zap.AddCaller()).Named(name)
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	// GMT/UTC/Zulu with millisecond precision.
	ec.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
	}
	return ec
}

// CallerName returns the package name of the caller at the given stack depth
// (1 = the caller of CallerName). Used to name loggers after the code that
// acquired them. Returns "unknown" if the stack cannot be resolved.
func CallerName(depth int) string {
	pc, _, _, ok := runtime.Caller(depth)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	// fn.Name() is like "github.com/sweeney/headless/timer.New" or
	// "main.run"; keep just the package element.
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "unknown"
	}
	return name
}

// EnsureDir creates the directory for a log file if it does not exist. Used
// by callers that accept a user-supplied path before handing it to New.
func EnsureDir(filename string) error {
	return os.MkdirAll(filepath.Dir(filename), 0o755)
}
