package employee

import (
	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
)

// PayFrequency enum
type PayFrequency string

const (
	PayFrequencyMonthly     PayFrequency = "monthly"
	PayFrequencySemiMonthly PayFrequency = "semimonthly"
	PayFrequencyBiweekly    PayFrequency = "biweekly"
	PayFrequencyWeekly      PayFrequency = "weekly"
)

// PeriodsPerYear returns the number of pay periods in a year for the
// frequency. Used to annualize period income for the tax table.
func (f PayFrequency) PeriodsPerYear() int64 {
	switch f {
	case PayFrequencyWeekly:
		return 52
	case PayFrequencyBiweekly:
		return 26
	case PayFrequencySemiMonthly:
		return 24
	default:
		return 12
	}
}

// PayProfile - the subset of employee data the payroll pipeline needs.
// The roster provider returns only active employees, so the calculation
// core never sees soft-delete or employment-status flags.
type PayProfile struct {
	EmployeeID   string
	TenantID     string
	FullName     string
	EmployeeCode string

	BaseSalary    decimal.Decimal
	PayFrequency  PayFrequency
	YearsCotized  int
	AverageSalary decimal.Decimal // trailing-10-year average, drives CSS tier
	Dependents    int
	RiskClass     taxconfig.RiskClass // from the employee's position

	SubjectToCSS          bool
	SubjectToEduInsurance bool
	SubjectToIncomeTax    bool
}
