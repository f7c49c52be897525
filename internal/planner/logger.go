package planner

// Logger receives user-facing messages. Each method corresponds to one
// severity marker; whether a message is emitted at all is decided by the
// caller from Config.Verbose.
type Logger interface {
	// Errorf reports a fatal condition.
	Errorf(format string, args ...interface{})
	// Warnf reports an advisory condition.
	Warnf(format string, args ...interface{})
	// Notef reports a neutral observation.
	Notef(format string, args ...interface{})
	// Progressf reports a positive finding or a planned action.
	Progressf(format string, args ...interface{})
	// Printf writes an unmarked report line.
	Printf(format string, args ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (noopLogger) Errorf(format string, args ...interface{})    {}
func (noopLogger) Warnf(format string, args ...interface{})     {}
func (noopLogger) Notef(format string, args ...interface{})     {}
func (noopLogger) Progressf(format string, args ...interface{}) {}
func (noopLogger) Printf(format string, args ...interface{})    {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return noopLogger{}
}
