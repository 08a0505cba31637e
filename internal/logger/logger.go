// Package logger holds the process-wide zap logger. The default instance
// writes console-formatted output at info level; main replaces the level
// from configuration at startup.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	global       *zap.SugaredLogger
	defaultLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	global = New(defaultLevel)
}

// New creates a *zap.SugaredLogger with simple console output.
func New(level zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = defaultLevel
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		TimeKey:          "ts",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: "\t",
	})

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)

	return zap.New(core, options...).Sugar()
}

// Log returns the shared logger.
func Log() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetLogger replaces the shared logger.
func SetLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// SetLevel changes the minimum level of the shared logger.
func SetLevel(level zapcore.Level) {
	defaultLevel.SetLevel(level)
}

// ParseLogLevel converts string input to a zap log level. The second return
// is false when the input is not recognized and the info default applies.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "fatal":
		return zapcore.FatalLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Convenience wrappers around the shared logger.

func Debugf(format string, args ...any) { Log().Debugf(format, args...) }
func Infof(format string, args ...any)  { Log().Infof(format, args...) }
func Warnf(format string, args ...any)  { Log().Warnf(format, args...) }
func Errorf(format string, args ...any) { Log().Errorf(format, args...) }
func Fatalf(format string, args ...any) { Log().Fatalf(format, args...) }
