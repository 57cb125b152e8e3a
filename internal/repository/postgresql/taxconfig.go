package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/planillapro/payroll-backend-go/internal/pkg/database"
)

type taxConfigRepository struct {
	db *database.DB
}

func NewTaxConfigRepository(db *database.DB) taxconfig.Repository {
	return &taxConfigRepository{db: db}
}

func (r *taxConfigRepository) GetEffective(ctx context.Context, tenantID string, payDate time.Time) (taxconfig.TaxConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, effective_start, effective_end,
			   css_employee_rate, css_employer_base_rate,
			   risk_rate_low, risk_rate_medium, risk_rate_high,
			   standard_max_base,
			   intermediate_max_base, intermediate_min_years, intermediate_min_avg_salary,
			   high_max_base, high_min_years, high_min_avg_salary,
			   edu_employee_rate, edu_employer_rate,
			   dependent_deduction, max_dependents,
			   created_at, updated_at
		FROM tax_configurations
		WHERE tenant_id = $1
		  AND effective_start <= $2
		  AND (effective_end IS NULL OR effective_end > $2)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var c taxconfig.TaxConfiguration
	err := q.QueryRow(ctx, query, tenantID, payDate).Scan(
		&c.ID, &c.TenantID, &c.EffectiveStart, &c.EffectiveEnd,
		&c.CSSEmployeeRate, &c.CSSEmployerBaseRate,
		&c.RiskRateLow, &c.RiskRateMedium, &c.RiskRateHigh,
		&c.StandardMaxBase,
		&c.IntermediateMaxBase, &c.IntermediateMinYears, &c.IntermediateMinAvgSal,
		&c.HighMaxBase, &c.HighMinYears, &c.HighMinAvgSal,
		&c.EduEmployeeRate, &c.EduEmployerRate,
		&c.DependentDeduction, &c.MaxDependents,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return taxconfig.TaxConfiguration{}, taxconfig.ErrConfigurationNotFound
		}
		return taxconfig.TaxConfiguration{}, fmt.Errorf("failed to get tax configuration: %w", err)
	}

	return c, nil
}

func (r *taxConfigRepository) GetBrackets(ctx context.Context, tenantID string, fiscalYear int) ([]taxconfig.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, fiscal_year, bracket_order, min_income, max_income, rate, fixed_amount
		FROM tax_brackets
		WHERE tenant_id = $1 AND fiscal_year = $2
		ORDER BY bracket_order
	`

	rows, err := q.Query(ctx, query, tenantID, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []taxconfig.TaxBracket
	for rows.Next() {
		var b taxconfig.TaxBracket
		if err := rows.Scan(
			&b.ID, &b.TenantID, &b.FiscalYear, &b.Order, &b.MinIncome, &b.MaxIncome, &b.Rate, &b.FixedAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tax brackets: %w", err)
	}

	if len(brackets) == 0 {
		return nil, fmt.Errorf("fiscal year %d: %w", fiscalYear, taxconfig.ErrNoBracketsForYear)
	}

	return brackets, nil
}
