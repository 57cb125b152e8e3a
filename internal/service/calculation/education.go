package calculation

import (
	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/planillapro/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// EducationResult holds the educational-insurance amounts for one employee.
type EducationResult struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// CalculateEducation computes the flat-rate educational-insurance
// contribution on gross pay. Unlike CSS there is no capping tier. Both
// sides are zero when the employee is not subject.
func CalculateEducation(grossPay decimal.Decimal, cfg taxconfig.TaxConfiguration, subject bool) EducationResult {
	if !subject {
		return EducationResult{Employee: decimal.Zero, Employer: decimal.Zero}
	}

	return EducationResult{
		Employee: money.RoundCurrency(grossPay.Mul(cfg.EduEmployeeRate)),
		Employer: money.RoundCurrency(grossPay.Mul(cfg.EduEmployerRate)),
	}
}
