package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/planillapro/payroll-backend-go/internal/pkg/database"
)

type sourceRecordRepository struct {
	db *database.DB
}

func NewSourceRecordRepository(db *database.DB) payroll.SourceRecordProvider {
	return &sourceRecordRepository{db: db}
}

// GetUnconsumed loads every source record a run over the period may
// consume, keyed by employee. Only records not yet stamped with a
// payroll_detail_id are returned; fixed deductions and loans are standing
// records and are never stamped, loans instead carry their balance forward
// through loan_payments.
func (r *sourceRecordRepository) GetUnconsumed(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) (map[string]payroll.SourceRecords, error) {
	records := map[string]payroll.SourceRecords{}

	if err := r.loadOvertime(ctx, tenantID, periodStart, periodEnd, records); err != nil {
		return nil, err
	}
	if err := r.loadAbsences(ctx, tenantID, periodStart, periodEnd, records); err != nil {
		return nil, err
	}
	if err := r.loadVacations(ctx, tenantID, periodStart, periodEnd, records); err != nil {
		return nil, err
	}
	if err := r.loadFixedDeductions(ctx, tenantID, records); err != nil {
		return nil, err
	}
	if err := r.loadLoans(ctx, tenantID, records); err != nil {
		return nil, err
	}
	if err := r.loadAdvances(ctx, tenantID, periodStart, periodEnd, records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *sourceRecordRepository) loadOvertime(ctx context.Context, tenantID string, periodStart, periodEnd time.Time, records map[string]payroll.SourceRecords) error {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, category, hours, amount
		FROM overtime_records
		WHERE tenant_id = $1
		  AND work_date BETWEEN $2 AND $3
		  AND status = 'approved'
		  AND payroll_detail_id IS NULL
	`, tenantID, periodStart, periodEnd)
	if err != nil {
		return fmt.Errorf("failed to list overtime records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec payroll.OvertimeRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Category, &rec.Hours, &rec.Amount); err != nil {
			return fmt.Errorf("failed to scan overtime record: %w", err)
		}
		bundle := records[rec.EmployeeID]
		bundle.Overtime = append(bundle.Overtime, rec)
		records[rec.EmployeeID] = bundle
	}
	return rows.Err()
}

func (r *sourceRecordRepository) loadAbsences(ctx context.Context, tenantID string, periodStart, periodEnd time.Time, records map[string]payroll.SourceRecords) error {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, days, amount, affects_salary
		FROM absence_records
		WHERE tenant_id = $1
		  AND absence_date BETWEEN $2 AND $3
		  AND payroll_detail_id IS NULL
	`, tenantID, periodStart, periodEnd)
	if err != nil {
		return fmt.Errorf("failed to list absence records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec payroll.AbsenceRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Days, &rec.Amount, &rec.AffectsSalary); err != nil {
			return fmt.Errorf("failed to scan absence record: %w", err)
		}
		bundle := records[rec.EmployeeID]
		bundle.Absences = append(bundle.Absences, rec)
		records[rec.EmployeeID] = bundle
	}
	return rows.Err()
}

func (r *sourceRecordRepository) loadVacations(ctx context.Context, tenantID string, periodStart, periodEnd time.Time, records map[string]payroll.SourceRecords) error {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, days, amount
		FROM vacation_records
		WHERE tenant_id = $1
		  AND start_date BETWEEN $2 AND $3
		  AND status = 'approved'
		  AND payroll_detail_id IS NULL
	`, tenantID, periodStart, periodEnd)
	if err != nil {
		return fmt.Errorf("failed to list vacation records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec payroll.VacationRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Days, &rec.Amount); err != nil {
			return fmt.Errorf("failed to scan vacation record: %w", err)
		}
		bundle := records[rec.EmployeeID]
		bundle.Vacations = append(bundle.Vacations, rec)
		records[rec.EmployeeID] = bundle
	}
	return rows.Err()
}

func (r *sourceRecordRepository) loadFixedDeductions(ctx context.Context, tenantID string, records map[string]payroll.SourceRecords) error {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, name, priority, kind, amount
		FROM fixed_deductions
		WHERE tenant_id = $1 AND is_active = true
		ORDER BY priority
	`, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list fixed deductions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec payroll.FixedDeduction
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Name, &rec.Priority, &rec.Kind, &rec.Amount); err != nil {
			return fmt.Errorf("failed to scan fixed deduction: %w", err)
		}
		bundle := records[rec.EmployeeID]
		bundle.FixedDeductions = append(bundle.FixedDeductions, rec)
		records[rec.EmployeeID] = bundle
	}
	return rows.Err()
}

func (r *sourceRecordRepository) loadLoans(ctx context.Context, tenantID string, records map[string]payroll.SourceRecords) error {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, status, monthly_installment, outstanding_balance
		FROM loans
		WHERE tenant_id = $1 AND status = 'active' AND outstanding_balance > 0
	`, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec payroll.Loan
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Status, &rec.MonthlyInstallment, &rec.OutstandingBalance); err != nil {
			return fmt.Errorf("failed to scan loan: %w", err)
		}
		bundle := records[rec.EmployeeID]
		bundle.Loans = append(bundle.Loans, rec)
		records[rec.EmployeeID] = bundle
	}
	return rows.Err()
}

func (r *sourceRecordRepository) loadAdvances(ctx context.Context, tenantID string, periodStart, periodEnd time.Time, records map[string]payroll.SourceRecords) error {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, amount, discount_date, status
		FROM advances
		WHERE tenant_id = $1
		  AND discount_date BETWEEN $2 AND $3
		  AND status = 'approved'
		  AND payroll_detail_id IS NULL
	`, tenantID, periodStart, periodEnd)
	if err != nil {
		return fmt.Errorf("failed to list advances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec payroll.Advance
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Amount, &rec.DiscountDate, &rec.Status); err != nil {
			return fmt.Errorf("failed to scan advance: %w", err)
		}
		bundle := records[rec.EmployeeID]
		bundle.Advances = append(bundle.Advances, rec)
		records[rec.EmployeeID] = bundle
	}
	return rows.Err()
}
