// Package blog implements the boot-time debug/serial trace logger (C8).
//
// It is a single-writer, line-oriented logger that fans out to any number
// of attached Sinks (a UART, a framebuffer console, or — for host-side
// tooling and tests — a plain io.Writer). Each line is tagged with a level
// badge and the caller-supplied module name, mirroring the
// "[fiano][WARN] ..." convention of the teacher's pkg/log.
package blog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is a log severity.
type Level int

// Severity levels, lowest to highest.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) badge() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "?"
	}
}

// Sink receives fully-rendered log lines. Implementations must not block
// indefinitely; the boot path has no scheduler to rescue a stuck sink.
type Sink interface {
	WriteLine(line string) error
}

// WriterSink adapts an io.Writer (a file, a test buffer, a pipe to an
// emulator's serial console) into a Sink.
type WriterSink struct {
	W io.Writer
}

// WriteLine implements Sink.
func (s WriterSink) WriteLine(line string) error {
	_, err := io.WriteString(s.W, line+"\n")
	return err
}

// Logger is the C8 single-writer logger. The zero value is not usable;
// construct with New.
type Logger struct {
	mu    sync.Mutex
	sinks []Sink
	// halt is invoked by Fatalf after the line has been flushed to every
	// sink. Tests substitute a non-exiting halt to observe the call.
	halt func()
}

// New returns a Logger with no sinks attached. Sinks are added with
// Attach; a Logger with no sinks silently drops everything, which is the
// correct behavior before the framebuffer/UART exist (spec §9 "process-wide
// state... initialize before any logging").
func New() *Logger {
	return &Logger{halt: func() { os.Exit(1) }}
}

// Attach adds a sink. Safe to call after logging has begun; new lines go
// to every attached sink, but nothing is replayed to a newly attached one.
func (l *Logger) Attach(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// SetHaltFunc overrides what Fatalf calls after logging. Production code
// never needs this; it exists so tests can assert a Fatalf happened
// without terminating the test binary.
func (l *Logger) SetHaltFunc(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.halt = f
}

func (l *Logger) emit(level Level, module, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%-5s][%s] %s", level.badge(), module, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sinks {
		// A sink error at boot time has nowhere useful to go; the
		// logger itself is the error-reporting mechanism.
		_ = s.WriteLine(line)
	}
}

// Infof logs an informational line for the given module tag.
func (l *Logger) Infof(module, format string, args ...interface{}) {
	l.emit(LevelInfo, module, format, args...)
}

// Warnf logs a warning line for the given module tag.
func (l *Logger) Warnf(module, format string, args ...interface{}) {
	l.emit(LevelWarn, module, format, args...)
}

// Errorf logs an error line for the given module tag.
func (l *Logger) Errorf(module, format string, args ...interface{}) {
	l.emit(LevelError, module, format, args...)
}

// Fatalf logs a fatal line and then invokes the halt function. In the boot
// stages halt spins forever (spec §4.5: "A spin-loop follows as a
// defensive backstop"); the caller never regains control.
func (l *Logger) Fatalf(module, format string, args ...interface{}) {
	l.emit(LevelFatal, module, format, args...)
	l.mu.Lock()
	halt := l.halt
	l.mu.Unlock()
	halt()
}

// Default is the process-wide logger used throughout the boot stages,
// mirroring the teacher's package-level DefaultLogger. It starts with no
// sinks; each stage attaches the sinks it owns as they come online.
var Default = New()
