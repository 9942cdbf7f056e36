package obs

import (
	"context"
	"log/slog"

	"siteavail/internal/domain/shared/events"
)

// DiagnosticsRecorder counts and logs every diagnostic event it receives.
type DiagnosticsRecorder struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

func (d DiagnosticsRecorder) Report(ctx context.Context, ev events.DomainEvent) error {
	if d.Metrics != nil {
		d.Metrics.IncDiagnostic(ev.EventName())
	}
	if d.Logger != nil {
		d.Logger.InfoContext(ctx, "diagnostic recorded",
			"event", ev.EventName(),
			"site_id", ev.AggregateID(),
			"request_id", RequestIDFromContext(ctx),
		)
	}
	return nil
}
