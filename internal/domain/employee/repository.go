package employee

import (
	"context"
	"time"
)

// RosterProvider supplies the active roster for a tenant and period.
// Soft-delete and employment-status filtering happens behind this
// interface; callers only ever see payable employees.
type RosterProvider interface {
	GetActivePayProfiles(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) ([]PayProfile, error)
}
