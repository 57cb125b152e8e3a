package payroll

import (
	"context"
)

// RunService defines business logic for payroll runs
type RunService interface {
	// CreateRun creates a Draft run for the authenticated tenant
	CreateRun(ctx context.Context, req CreateRunRequest) (RunResponse, error)

	// ProcessRun calculates every active employee and moves the run
	// Draft -> Processed. Employees that fail to calculate are reported in
	// the result; the run still commits when at least one succeeded.
	ProcessRun(ctx context.Context, runID string) (RunResult, error)

	// ApproveRun moves a Processed run to Approved
	ApproveRun(ctx context.Context, runID string) (RunResponse, error)

	// MarkPaid moves an Approved run to Paid, recording the payment reference
	MarkPaid(ctx context.Context, runID string, req MarkPaidRequest) (RunResponse, error)

	// GetRun retrieves a single run with its detail rows
	GetRun(ctx context.Context, runID string) (RunResponse, error)

	// ListRuns retrieves runs with filters and pagination
	ListRuns(ctx context.Context, filter RunFilter) (ListRunResponse, error)

	// DeleteRun deletes a Draft run and its details
	DeleteRun(ctx context.Context, runID string) error

	// GetSummary aggregates run counts and totals over a period
	GetSummary(ctx context.Context, periodStart, periodEnd string) (RunSummaryResponse, error)
}
