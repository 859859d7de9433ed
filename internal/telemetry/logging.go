package telemetry

import (
	"context"
	"log/slog"

	"github.com/blytheSchen/SketchTiler-sub000/internal/logger"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

// Logging writes solve progress to a structured logger. Collapses are
// logged at debug level only.
type Logging struct {
	log *slog.Logger
}

var _ wfc.Observer = (*Logging)(nil)

// NewLogging logs to l, or to the package logger tagged component=wfc when l is nil.
func NewLogging(l *slog.Logger) *Logging {
	if l == nil {
		l = logger.With("component", "wfc")
	}
	return &Logging{log: l}
}

func (l *Logging) SolveStarted(ctx context.Context, width, height, patterns int) context.Context {
	l.log.InfoContext(ctx, "solve started", "width", width, "height", height, "patterns", patterns)
	return ctx
}

func (l *Logging) AttemptStarted(ctx context.Context, attempt int) {
	l.log.DebugContext(ctx, "attempt started", "attempt", attempt)
}

func (l *Logging) Collapsed(ctx context.Context, x, y, pattern int) {
	l.log.DebugContext(ctx, "collapsed", "x", x, "y", y, "pattern", pattern)
}

func (l *Logging) Contradicted(ctx context.Context, attempt, x, y int) {
	l.log.WarnContext(ctx, "contradiction", "attempt", attempt, "x", x, "y", y)
}

func (l *Logging) SolveFinished(ctx context.Context, attempts int, err error) {
	if err != nil {
		l.log.ErrorContext(ctx, "solve failed", "attempts", attempts, "error", err)
		return
	}
	l.log.InfoContext(ctx, "solve finished", "attempts", attempts)
}
