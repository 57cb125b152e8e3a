package taxconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskClass enum - position-level hazard classification
type RiskClass string

const (
	RiskClassLow    RiskClass = "low"
	RiskClassMedium RiskClass = "medium"
	RiskClassHigh   RiskClass = "high"
)

// TaxConfiguration - tenant tax/contribution parameters, time-sliced by
// [EffectiveStart, EffectiveEnd). A nil EffectiveEnd means the slice is
// still open.
type TaxConfiguration struct {
	ID             string
	TenantID       string
	EffectiveStart time.Time
	EffectiveEnd   *time.Time

	// Social-security (CSS) rates
	CSSEmployeeRate     decimal.Decimal
	CSSEmployerBaseRate decimal.Decimal
	RiskRateLow         decimal.Decimal
	RiskRateMedium      decimal.Decimal
	RiskRateHigh        decimal.Decimal

	// Tiered maximum contribution bases. An employee contributes on the
	// high/intermediate base only when both the years-cotized and the
	// trailing average-salary thresholds for that tier are met.
	StandardMaxBase       decimal.Decimal
	IntermediateMaxBase   decimal.Decimal
	IntermediateMinYears  int
	IntermediateMinAvgSal decimal.Decimal
	HighMaxBase           decimal.Decimal
	HighMinYears          int
	HighMinAvgSal         decimal.Decimal

	// Educational insurance
	EduEmployeeRate decimal.Decimal
	EduEmployerRate decimal.Decimal

	// Income tax
	DependentDeduction decimal.Decimal
	MaxDependents      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RiskRate returns the employer risk surcharge rate for a risk class.
func (c TaxConfiguration) RiskRate(class RiskClass) decimal.Decimal {
	switch class {
	case RiskClassHigh:
		return c.RiskRateHigh
	case RiskClassMedium:
		return c.RiskRateMedium
	default:
		return c.RiskRateLow
	}
}

// Covers reports whether payDate falls inside the configuration's
// validity interval (start inclusive, end exclusive).
func (c TaxConfiguration) Covers(payDate time.Time) bool {
	if payDate.Before(c.EffectiveStart) {
		return false
	}
	if c.EffectiveEnd != nil && !payDate.Before(*c.EffectiveEnd) {
		return false
	}
	return true
}

// TaxBracket - one bracket of the progressive income-tax table for a
// fiscal year. Brackets are gap-free and sorted by Order; the top bracket
// has a nil MaxIncome. FixedAmount is the tax already accumulated below
// MinIncome.
type TaxBracket struct {
	ID          string
	TenantID    string
	FiscalYear  int
	Order       int
	MinIncome   decimal.Decimal
	MaxIncome   *decimal.Decimal
	Rate        decimal.Decimal
	FixedAmount decimal.Decimal
}

// Contains reports whether taxableIncome belongs to this bracket under the
// half-open interval [MinIncome, MaxIncome). Income exactly at a boundary
// belongs to the higher bracket.
func (b TaxBracket) Contains(taxableIncome decimal.Decimal) bool {
	if taxableIncome.LessThan(b.MinIncome) {
		return false
	}
	if b.MaxIncome != nil && !taxableIncome.LessThan(*b.MaxIncome) {
		return false
	}
	return true
}
