// Package log exposes the logger used by the jeval SDK.
//
// Loggers receive the evaluation stages ("Preparing workspace...", "Compiling
// classes..."...) with the run and workspace IDs as structured values. Program
// output never goes through the logger.
//
// Adapt an application logger by implementing [Logger]:
//
//	type slogLogger struct{ l *slog.Logger }
//
//	func (s slogLogger) Infof(format string, args ...any) { s.l.Info(fmt.Sprintf(format, args...)) }
//	// ... remaining methods
package log

import "github.com/slok/jeval/internal/log"

// Logger is the interface loggers must implement for the SDK.
type Logger = log.Logger

// Kv are structured logging key-value pairs.
type Kv = log.Kv

// Noop discards everything, it's the default when [lib.Config] has no logger.
var Noop = log.Noop
