package audit

import (
	"context"
	"time"
)

// Event describes one payroll run state transition.
type Event struct {
	TenantID   string
	RunID      string
	RunNumber  string
	FromStatus string
	ToStatus   string
	ActorID    string
	OccurredAt time.Time
}

// Sink receives run transitions. Implementations must not block the
// caller; the orchestrator treats notification as fire-and-forget.
type Sink interface {
	RunTransitioned(ctx context.Context, event Event)
}
