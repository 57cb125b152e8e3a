package taxconfig

import (
	"context"
	"time"
)

// Repository defines read access to tax configuration and brackets.
// All methods take tenantID explicitly; the calculation core never reads
// tenant scope from ambient state.
type Repository interface {
	// GetEffective returns the single configuration whose validity interval
	// covers payDate, preferring the most recently created if more than one
	// matches. Returns ErrConfigurationNotFound when none does.
	GetEffective(ctx context.Context, tenantID string, payDate time.Time) (TaxConfiguration, error)

	// GetBrackets returns the bracket set for a fiscal year sorted by
	// ascending Order. Returns ErrNoBracketsForYear when the year has no
	// brackets at all.
	GetBrackets(ctx context.Context, tenantID string, fiscalYear int) ([]TaxBracket, error)
}
