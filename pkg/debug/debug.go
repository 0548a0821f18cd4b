// Package debug writes diagnostic lines to stderr when WDI_DEBUG is set:
//
//	WDI_DEBUG=1 wdi --serve :8050
//
// With the variable unset every call returns immediately.
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const prefix = "[WDI_DEBUG] "

var (
	mu      sync.Mutex
	enabled = os.Getenv("WDI_DEBUG") != ""
	logger  = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
)

// Enabled reports whether debug lines are written.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// SetEnabled turns debug output on or off.
func SetEnabled(e bool) {
	mu.Lock()
	enabled = e
	mu.Unlock()
}

// SetOutput redirects debug output. The TUI owns stderr while the alternate
// screen is active, so it sends lines to a file instead.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
	mu.Unlock()
}

// Log writes a printf-style line.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		logger.Printf(format, args...)
	}
}

// LogTiming writes how long the named step took.
func LogTiming(name string, d time.Duration) {
	Log("%s took %v", name, d)
}
