package ingest

import "log"

// Logger receives progress and skip diagnostics from the pipeline. The
// enclosing orchestration layer owns user-visible error reporting; the
// pipeline itself only raises.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}

// StdLogger adapts a stdlib log.Logger to the pipeline Logger interface.
type StdLogger struct {
	L *log.Logger
}

// Debugf logs at debug level.
func (s StdLogger) Debugf(format string, args ...any) { s.L.Printf("DEBUG "+format, args...) }

// Infof logs at info level.
func (s StdLogger) Infof(format string, args ...any) { s.L.Printf("INFO  "+format, args...) }

// Warnf logs at warn level.
func (s StdLogger) Warnf(format string, args ...any) { s.L.Printf("WARN  "+format, args...) }
