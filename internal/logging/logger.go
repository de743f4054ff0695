package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Options selects the encoder and destination. An empty File logs to stderr;
// the console passes a file under .spells/logs so log lines never land on the
// terminal it draws.
type Options struct {
	Mode string
	File string
}

// Logger wraps a zap SugaredLogger. Printf satisfies the small logger
// interfaces of the eventbridge and skill packages; the w-style methods carry
// key/value pairs.
type Logger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

// New builds a logger from opts.
func New(opts Options) (*Logger, error) {
	var (
		out  io.Writer = os.Stderr
		file *os.File
	)
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		out, file = f, f
	}
	l := NewWriter(out, opts.Mode)
	l.file = file
	return l, nil
}

// NewWriter logs to w. Production mode emits JSON at info level; anything
// else emits console lines at debug level.
func NewWriter(w io.Writer, mode string) *Logger {
	var (
		encoder zapcore.Encoder
		level   zapcore.Level
	)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeProduction, "prod":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		level = zapcore.InfoLevel
	default:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.RFC3339TimeEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level)
	return &Logger{sugar: zap.New(core).Sugar()}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Printf writes a single info line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Infof(strings.TrimRight(format, "\n"), args...)
}

// Debug writes a debug line with key/value pairs. Production mode drops it.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info writes an info line with key/value pairs.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn writes a warning with key/value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error writes an error line with key/value pairs.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Errorw(msg, keysAndValues...)
}

// With returns a child logger that adds keysAndValues to every line.
func (l *Logger) With(keysAndValues ...any) *Logger {
	if l == nil || l.sugar == nil {
		return l
	}
	return &Logger{sugar: l.sugar.With(keysAndValues...), file: l.file}
}

// Close flushes buffered lines and releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.sugar == nil {
		return nil
	}
	_ = l.sugar.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
