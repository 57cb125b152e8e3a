package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/planillapro/payroll-backend-go/internal/domain/employee"
	"github.com/planillapro/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.RosterProvider {
	return &employeeRepository{db: db}
}

// GetActivePayProfiles returns the payable roster for a period: employees
// active during the period and not soft-deleted. Employees hired after the
// period end or terminated before the period start are excluded.
func (r *employeeRepository) GetActivePayProfiles(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) ([]employee.PayProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.tenant_id, e.full_name, e.employee_code,
			   e.base_salary, e.pay_frequency, e.years_cotized, e.average_salary,
			   e.dependents, p.risk_class,
			   e.subject_to_css, e.subject_to_edu_insurance, e.subject_to_income_tax
		FROM employees e
		JOIN positions p ON p.id = e.position_id
		WHERE e.tenant_id = $1
		  AND e.deleted_at IS NULL
		  AND e.hire_date <= $3
		  AND (e.termination_date IS NULL OR e.termination_date >= $2)
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, tenantID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay profiles: %w", err)
	}
	defer rows.Close()

	var profiles []employee.PayProfile
	for rows.Next() {
		var p employee.PayProfile
		if err := rows.Scan(
			&p.EmployeeID, &p.TenantID, &p.FullName, &p.EmployeeCode,
			&p.BaseSalary, &p.PayFrequency, &p.YearsCotized, &p.AverageSalary,
			&p.Dependents, &p.RiskClass,
			&p.SubjectToCSS, &p.SubjectToEduInsurance, &p.SubjectToIncomeTax,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pay profiles: %w", err)
	}

	return profiles, nil
}
