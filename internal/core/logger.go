package core

type LogLevel int

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// LevelFromVerbosity maps the CLI's -v count onto a log level:
// 0 → info, 1 → debug, 2+ → trace.
func LevelFromVerbosity(n int) LogLevel {
	switch {
	case n <= 0:
		return LevelInfo
	case n == 1:
		return LevelDebug
	default:
		return LevelTrace
	}
}

type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	SetLevel(level LogLevel)
}
