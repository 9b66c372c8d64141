package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	forced atomic.Bool
)

// SetOutput replaces the writer log lines go to and returns the previous one
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return prev
}

// SetDebug turns debug output on regardless of TODO_DEBUG. It backs the
// --verbose flag.
func SetDebug(enabled bool) {
	forced.Store(enabled)
}

// DebugEnabled returns true if debug mode is enabled via TODO_DEBUG environment variable
// or SetDebug
func DebugEnabled() bool {
	return forced.Load() || os.Getenv("TODO_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		write("debug", fmt.Sprintf(format, args...))
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		write("debug", fmt.Sprintln(args...))
	}
}

// Infof prints a formatted informational message
func Infof(format string, args ...interface{}) {
	write("info", fmt.Sprintf(format, args...))
}

// Errorf prints a formatted error message
func Errorf(format string, args ...interface{}) {
	write("error", fmt.Sprintf(format, args...))
}

func write(level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	fmt.Fprintf(output, "%s %-5s %s\n", time.Now().Format(time.RFC3339), level, msg)
}
