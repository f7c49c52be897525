// Package logging renders initdot's user-facing messages.
//
// Messages carry a fixed severity marker rather than a timestamp or level
// name, so output reads like a shell script's:
//
//	** error: --dir-bin /nope: not an existing directory, too afraid to proceed
//	** warning: .tcshrc does NOT seem to contain 'source .cshrc'
//	-- setting dir_dot to $HOME
//	++ have original abin /home/me/abin
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Severity markers.
const (
	MarkError    = "** error: "
	MarkWarning  = "** warning: "
	MarkNote     = "-- "
	MarkProgress = "++ "
)

// Logger writes marked messages through zap. It satisfies planner.Logger.
type Logger struct {
	z *zap.Logger
}

// New creates a Logger writing to w. Messages below level are dropped; the
// CLI uses InfoLevel and leaves finer control to the verbosity checks at the
// call sites.
func New(w io.Writer, level zapcore.Level) *Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return &Logger{z: zap.New(core)}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.z.Error(MarkError + fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.z.Warn(MarkWarning + fmt.Sprintf(format, args...))
}

func (l *Logger) Notef(format string, args ...interface{}) {
	l.z.Info(MarkNote + fmt.Sprintf(format, args...))
}

func (l *Logger) Progressf(format string, args ...interface{}) {
	l.z.Info(MarkProgress + fmt.Sprintf(format, args...))
}

func (l *Logger) Printf(format string, args ...interface{}) {
	l.z.Info(fmt.Sprintf(format, args...))
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	return l.z.Sync()
}
