// Package-level configuration for structured logging.
//
// Logging is an infrastructure cross-cutting concern: loops created without
// an explicit WithLogger option share the package logger. A nil logger is
// valid (logiface builders no-op on a nil receiver), so the zero
// configuration costs nothing on hot paths.

package reactor

import (
	"sync"

	"github.com/joeycumines/logiface"
)

// Logger is the structured logger type consumed by this package.
//
// Construct one with [logiface.New] and an implementation-specific writer,
// e.g. one of the logiface adapter modules (zerolog, slog, stumpy, ...).
type Logger = logiface.Logger[logiface.Event]

var packageLogger struct {
	sync.RWMutex
	logger *Logger
}

// SetLogger sets the package-level structured logger, used by loops that
// were not given a logger via [WithLogger]. Passing nil disables package
// logging (the default).
func SetLogger(logger *Logger) {
	packageLogger.Lock()
	defer packageLogger.Unlock()
	packageLogger.logger = logger
}

func getPackageLogger() *Logger {
	packageLogger.RLock()
	defer packageLogger.RUnlock()
	return packageLogger.logger
}
