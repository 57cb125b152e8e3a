package auditlog

import (
	"context"
	"log/slog"

	"github.com/planillapro/payroll-backend-go/internal/domain/audit"
)

// SlogSink writes run transitions to a structured logger. Logging is
// synchronous but cheap; it never returns an error to the caller.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) RunTransitioned(ctx context.Context, event audit.Event) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "payroll run transitioned",
		slog.String("tenant_id", event.TenantID),
		slog.String("run_id", event.RunID),
		slog.String("run_number", event.RunNumber),
		slog.String("from_status", event.FromStatus),
		slog.String("to_status", event.ToStatus),
		slog.String("actor_id", event.ActorID),
		slog.Time("occurred_at", event.OccurredAt),
	)
}
