package payroll

import (
	"context"
	"time"
)

// TransitionStamp carries the actor/reference metadata recorded on a
// status transition.
type TransitionStamp struct {
	ActorID          string
	PaymentReference string
	At               time.Time
}

// RunRepository defines persistence for payroll runs and their details.
// All methods take tenantID explicitly to prevent cross-tenant access.
type RunRepository interface {
	Create(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetByID(ctx context.Context, id string, tenantID string) (PayrollRun, error)
	GetDetails(ctx context.Context, runID string, tenantID string) ([]PayrollDetail, error)
	List(ctx context.Context, tenantID string, filter RunFilter) ([]PayrollRun, int64, error)
	GetSummary(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) (RunSummaryResponse, error)

	// Delete removes a run and its details. Fails with
	// ErrCannotDeleteNonDraft past Draft.
	Delete(ctx context.Context, id string, tenantID string) error

	// CommitProcessed atomically replaces the run's detail set, writes the
	// recomputed totals, stamps every consumed source record, and moves the
	// run Draft -> Processed. The transition is a compare-and-set on
	// (status, version): a version mismatch or a non-Draft status fails
	// with ErrConcurrencyConflict / ErrInvalidTransition and nothing is
	// persisted. A source record already claimed by another run fails the
	// whole commit with ErrSourceRecordClaimed.
	CommitProcessed(ctx context.Context, run PayrollRun, details []PayrollDetail, consumed []ConsumedRecords, expectedVersion int64, stamp TransitionStamp) (PayrollRun, error)

	// Transition performs a guarded from -> to status change under the
	// optimistic version token. ErrConcurrencyConflict on version mismatch,
	// ErrInvalidTransition when the run is not in the expected state.
	Transition(ctx context.Context, id string, tenantID string, from, to RunStatus, expectedVersion int64, stamp TransitionStamp) (PayrollRun, error)
}

// SourceRecordProvider supplies unconsumed source records for a tenant and
// period, keyed by employee id. Loading happens once per run so the
// per-employee pipeline stays free of I/O.
type SourceRecordProvider interface {
	GetUnconsumed(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) (map[string]SourceRecords, error)
}
