package kairos

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// diagnosticLogger is the one piece of process-wide mutable state in this
// package: everything else is per-interpretation or per-fiber, but the
// diagnostic error stream is deliberately shared so dropped callbacks
// and secondary finalizer errors land somewhere visible regardless of
// which run produced them.
var diagnosticLogger atomic.Pointer[slog.Logger]

func init() {
	diagnosticLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// SetDiagnosticLogger replaces the process-wide diagnostic logger used to
// report dropped async callbacks and finalizer errors beyond the first
// during cancellation. Passing nil restores the default stderr text
// handler.
func SetDiagnosticLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	diagnosticLogger.Store(l)
}

func diagLog() *slog.Logger { return diagnosticLogger.Load() }
