package api

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// RequestEvent describes one finished API call.
type RequestEvent struct {
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
	RequestID string
	Err       error
}

// Observer receives an event per API call.
type Observer interface {
	ObserveRequest(ctx context.Context, event RequestEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveRequest(context.Context, RequestEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes one structured line per API call to w.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObserveRequest(ctx context.Context, event RequestEvent) {
	attrs := []any{
		"method", event.Method,
		"path", event.Path,
		"status", event.Status,
		"duration_ms", event.Duration.Milliseconds(),
		"request_id", event.RequestID,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "api_request", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "api_request", attrs...)
}
