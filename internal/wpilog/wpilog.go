// Package wpilog is simpi's diagnostic logger. It follows the teacher
// repo's "[tag] message" convention (see main.go's log.Println calls) and
// the WPISIM_LOG gate / ANSI level coloring from
// original_source/utils/src/log.rs.
package wpilog

import (
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	ident   = "LOG"
	enabled = os.Getenv("WPISIM_LOG") == "1"
)

// Init sets the identifier used to prefix subsequent log lines, mirroring
// log::init(ident) in the original source.
func Init(identifier string) {
	mu.Lock()
	ident = identifier
	mu.Unlock()
}

const (
	levelInfo = iota + 1
	levelWarning
	levelError
)

func colorFor(level int) string {
	switch level {
	case levelInfo:
		return "\x1b[0;90m"
	case levelWarning:
		return "\x1b[0;33m"
	case levelError:
		return "\x1b[0;31m"
	default:
		return "\x1b[0m"
	}
}

func emit(level int, msg string) {
	if !enabled {
		return
	}
	mu.Lock()
	id := ident
	mu.Unlock()
	os.Stderr.WriteString(colorFor(level) + "[" + id + "] " + msg + "\x1b[0m\n")
}

// Info logs an informational message.
func Info(msg string) { emit(levelInfo, msg) }

// Warning logs a warning.
func Warning(msg string) { emit(levelWarning, msg) }

// Error logs an error.
func Error(msg string) { emit(levelError, msg) }
