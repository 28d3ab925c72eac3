package observability

import (
	"context"
	"log/slog"
)

// SlogObserver implements [Observer] on top of Go's standard library slog.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlog creates a new slog-based observer. A nil logger falls back to
// slog.Default().
func NewSlog(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

// Ensure SlogObserver implements Observer at compile time.
var _ Observer = (*SlogObserver)(nil)

func (o *SlogObserver) Debug(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs)
}

func (o *SlogObserver) Info(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs)
}

func (o *SlogObserver) Warn(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs)
}

func (o *SlogObserver) Error(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs)
}

func (o *SlogObserver) log(ctx context.Context, level slog.Level, msg string, attrs []Attribute) {
	logAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	o.logger.LogAttrs(ctx, level, msg, logAttrs...)
}
