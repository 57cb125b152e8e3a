package calculation

import (
	"fmt"

	"github.com/planillapro/payroll-backend-go/internal/domain/employee"
	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/planillapro/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// CalculateIncomeTax computes the period's progressive income tax.
//
// Period gross is annualized by pay frequency, reduced by the dependent
// deduction (dependents capped at the configuration's maximum), matched
// against the ordered bracket table, and the annual tax de-annualized
// back to the period. Bracket intervals are half-open [min, max): income
// exactly on a boundary belongs to the higher bracket. The bracket table
// is small and admin-maintained, so a linear scan in Order is used rather
// than a search structure.
//
// Returns zero (and performs no lookup) when the employee is not subject
// to income tax. Returns taxconfig.ErrBracketNotFound when the bracket
// table has a gap at the taxable income.
func CalculateIncomeTax(
	periodGross decimal.Decimal,
	frequency employee.PayFrequency,
	dependents int,
	cfg taxconfig.TaxConfiguration,
	brackets []taxconfig.TaxBracket,
	subject bool,
) (decimal.Decimal, error) {
	if !subject {
		return decimal.Zero, nil
	}

	periods := decimal.NewFromInt(frequency.PeriodsPerYear())
	annualIncome := periodGross.Mul(periods)

	if dependents < 0 {
		dependents = 0
	}
	if dependents > cfg.MaxDependents {
		dependents = cfg.MaxDependents
	}
	deduction := cfg.DependentDeduction.Mul(decimal.NewFromInt(int64(dependents)))

	taxableIncome := annualIncome.Sub(deduction)
	if taxableIncome.IsNegative() {
		taxableIncome = decimal.Zero
	}

	for _, b := range brackets {
		if !b.Contains(taxableIncome) {
			continue
		}
		annualTax := b.FixedAmount.Add(taxableIncome.Sub(b.MinIncome).Mul(b.Rate))
		return money.RoundCurrency(annualTax.Div(periods)), nil
	}

	return decimal.Zero, fmt.Errorf("taxable income %s: %w", taxableIncome, taxconfig.ErrBracketNotFound)
}
