package calculation

import (
	"github.com/planillapro/payroll-backend-go/internal/domain/employee"
	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/planillapro/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// CSSResult holds the three social-security amounts for one employee.
type CSSResult struct {
	Employee     decimal.Decimal
	EmployerBase decimal.Decimal
	Risk         decimal.Decimal
}

// CalculateCSS computes employee and employer CSS contributions plus the
// risk-class surcharge. Long-tenured, higher-earning employees contribute
// on a higher capped base: the tier is picked by years cotized AND
// trailing average salary, compared raw (unrounded); only the final
// amounts are rounded. All three amounts are zero when the employee is
// not subject to CSS.
func CalculateCSS(grossPay decimal.Decimal, profile employee.PayProfile, cfg taxconfig.TaxConfiguration) CSSResult {
	if !profile.SubjectToCSS {
		return CSSResult{Employee: decimal.Zero, EmployerBase: decimal.Zero, Risk: decimal.Zero}
	}

	maxBase := cfg.StandardMaxBase
	switch {
	case profile.YearsCotized >= cfg.HighMinYears && profile.AverageSalary.GreaterThanOrEqual(cfg.HighMinAvgSal):
		maxBase = cfg.HighMaxBase
	case profile.YearsCotized >= cfg.IntermediateMinYears && profile.AverageSalary.GreaterThanOrEqual(cfg.IntermediateMinAvgSal):
		maxBase = cfg.IntermediateMaxBase
	}

	contributionBase := money.Min(grossPay, maxBase)

	return CSSResult{
		Employee:     money.RoundCurrency(contributionBase.Mul(cfg.CSSEmployeeRate)),
		EmployerBase: money.RoundCurrency(contributionBase.Mul(cfg.CSSEmployerBaseRate)),
		Risk:         money.RoundCurrency(contributionBase.Mul(cfg.RiskRate(profile.RiskClass))),
	}
}
