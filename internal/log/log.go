// Package log provides the package-level structured logger shared by the
// parser, evaluator, and renderer: a single go-kit/log logger, leveled,
// initialised once.
package log

import (
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the package-level logger. It defaults to a logfmt logger
// writing to stderr at info level; InitLogger reconfigures it.
var Logger log.Logger

var initOnce sync.Once

func init() {
	Logger = newDefault()
}

func newDefault() log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(l, level.AllowInfo())
}

// Level names accepted by InitLogger.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// InitLogger reconfigures the package-level Logger at the given level.
// Safe to call once; subsequent calls are no-ops.
func InitLogger(levelName string) {
	initOnce.Do(func() {
		l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
		l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
		Logger = level.NewFilter(l, allowed(levelName))
	})
}

func allowed(name string) level.Option {
	switch name {
	case LevelDebug:
		return level.AllowDebug()
	case LevelWarn:
		return level.AllowWarn()
	case LevelError:
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// Debug logs at debug level.
func Debug(keyvals ...interface{}) { _ = level.Debug(Logger).Log(keyvals...) }

// Info logs at info level.
func Info(keyvals ...interface{}) { _ = level.Info(Logger).Log(keyvals...) }

// Warn logs at warn level.
func Warn(keyvals ...interface{}) { _ = level.Warn(Logger).Log(keyvals...) }

// Error logs at error level.
func Error(keyvals ...interface{}) { _ = level.Error(Logger).Log(keyvals...) }
