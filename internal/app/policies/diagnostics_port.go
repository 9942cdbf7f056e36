package policies

import (
	"context"

	"siteavail/internal/domain/shared/events"
)

// DiagnosticsPort receives non-fatal signals such as data inconsistencies.
// Errors returned by implementations are logged by callers and never fail a query.
type DiagnosticsPort interface {
	Report(ctx context.Context, event events.DomainEvent) error
}

// MultiDiagnostics fans an event out to every port and returns the first error.
type MultiDiagnostics []DiagnosticsPort

func (m MultiDiagnostics) Report(ctx context.Context, event events.DomainEvent) error {
	var first error
	for _, port := range m {
		if port == nil {
			continue
		}
		if err := port.Report(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
