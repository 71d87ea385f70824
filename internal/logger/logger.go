// Package logger is the module's structured logger. The level is
// taken from the WAYWIN_LOG environment variable and may be
// overridden by the loaded options.
package logger

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetPrefix("waywin")
	SetLevel(os.Getenv("WAYWIN_LOG"))
}

// SetLevel parses a level name and applies it. Unknown names keep
// the warn default so a library embedded in someone else's process
// stays quiet.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		Logger.SetLevel(log.DebugLevel)
	case "info":
		Logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		Logger.SetLevel(log.WarnLevel)
	case "error":
		Logger.SetLevel(log.ErrorLevel)
	default:
		Logger.SetLevel(log.WarnLevel)
	}
}

func Debug(msg any, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

func Info(msg any, keyvals ...any) {
	Logger.Info(msg, keyvals...)
}

func Warn(msg any, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg any, keyvals ...any) {
	Logger.Error(msg, keyvals...)
}

func Debugf(format string, args ...any) {
	Logger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	Logger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	Logger.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	Logger.Errorf(format, args...)
}
