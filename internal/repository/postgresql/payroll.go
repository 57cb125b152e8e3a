package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/planillapro/payroll-backend-go/internal/pkg/database"
)

type payrollRunRepository struct {
	db *database.DB
}

func NewPayrollRunRepository(db *database.DB) payroll.RunRepository {
	return &payrollRunRepository{db: db}
}

const runColumns = `
	id, tenant_id, run_number, period_start, period_end, pay_date, status,
	total_gross, total_deductions, total_net, total_employer_cost,
	processed_at, processed_by, approved_at, approved_by, paid_at, paid_by, payment_reference,
	version, created_at, updated_at
`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var r payroll.PayrollRun
	err := row.Scan(
		&r.ID, &r.TenantID, &r.RunNumber, &r.PeriodStart, &r.PeriodEnd, &r.PayDate, &r.Status,
		&r.TotalGross, &r.TotalDeductions, &r.TotalNet, &r.TotalEmployerCost,
		&r.ProcessedAt, &r.ProcessedBy, &r.ApprovedAt, &r.ApprovedBy, &r.PaidAt, &r.PaidBy, &r.PaymentReference,
		&r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// ========== CRUD ==========

func (r *payrollRunRepository) Create(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (
			id, tenant_id, run_number, period_start, period_end, pay_date, status,
			total_gross, total_deductions, total_net, total_employer_cost, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + runColumns

	created, err := scanRun(q.QueryRow(ctx, query,
		run.ID, run.TenantID, run.RunNumber, run.PeriodStart, run.PeriodEnd, run.PayDate, run.Status,
		run.TotalGross, run.TotalDeductions, run.TotalNet, run.TotalEmployerCost, run.Version,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_run_number") {
			return payroll.PayrollRun{}, payroll.ErrRunNumberExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return created, nil
}

func (r *payrollRunRepository) GetByID(ctx context.Context, id string, tenantID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE id = $1 AND tenant_id = $2`

	run, err := scanRun(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if isNoRows(err) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

const detailColumns = `
	d.id, d.run_id, d.employee_id,
	d.base_salary, d.overtime_amount, d.vacation_amount, d.bonus_amount, d.gross_pay,
	d.css_employee, d.risk_contribution, d.edu_employee, d.income_tax,
	d.absence_deduction, d.fixed_deductions, d.loan_installments, d.advances,
	d.other_deductions, d.total_deductions, d.net_pay,
	d.css_employer, d.edu_employer, d.employer_cost,
	d.overtime_hours, d.absence_days, d.vacation_days,
	d.created_at, e.full_name, e.employee_code
`

func (r *payrollRunRepository) GetDetails(ctx context.Context, runID string, tenantID string) ([]payroll.PayrollDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + detailColumns + `
		FROM payroll_details d
		JOIN payroll_runs pr ON pr.id = d.run_id
		LEFT JOIN employees e ON e.id = d.employee_id
		WHERE d.run_id = $1 AND pr.tenant_id = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, runID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll details: %w", err)
	}
	defer rows.Close()

	var details []payroll.PayrollDetail
	for rows.Next() {
		var d payroll.PayrollDetail
		if err := rows.Scan(
			&d.ID, &d.RunID, &d.EmployeeID,
			&d.BaseSalary, &d.OvertimeAmount, &d.VacationAmount, &d.BonusAmount, &d.GrossPay,
			&d.CSSEmployee, &d.RiskContribution, &d.EduEmployee, &d.IncomeTax,
			&d.AbsenceDeduction, &d.FixedDeductions, &d.LoanInstallments, &d.Advances,
			&d.OtherDeductions, &d.TotalDeductions, &d.NetPay,
			&d.CSSEmployer, &d.EduEmployer, &d.EmployerCost,
			&d.OvertimeHours, &d.AbsenceDays, &d.VacationDays,
			&d.CreatedAt, &d.EmployeeName, &d.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll details: %w", err)
	}

	return details, nil
}

func (r *payrollRunRepository) List(ctx context.Context, tenantID string, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodStart != nil {
		where = append(where, fmt.Sprintf("period_end >= $%d", argIdx))
		args = append(args, *filter.PeriodStart)
		argIdx++
	}
	if filter.PeriodEnd != nil {
		where = append(where, fmt.Sprintf("period_start <= $%d", argIdx))
		args = append(args, *filter.PeriodEnd)
		argIdx++
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM payroll_runs WHERE ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM payroll_runs
		WHERE %s
		ORDER BY period_start DESC, run_number DESC
		LIMIT $%d OFFSET $%d
	`, runColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read payroll runs: %w", err)
	}

	return runs, total, nil
}

func (r *payrollRunRepository) GetSummary(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) (payroll.RunSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'draft'),
			   COUNT(*) FILTER (WHERE status = 'processed'),
			   COUNT(*) FILTER (WHERE status = 'approved'),
			   COUNT(*) FILTER (WHERE status = 'paid'),
			   COALESCE(SUM(total_gross), 0),
			   COALESCE(SUM(total_deductions), 0),
			   COALESCE(SUM(total_net), 0),
			   COALESCE(SUM(total_employer_cost), 0)
		FROM payroll_runs
		WHERE tenant_id = $1 AND period_start >= $2 AND period_end <= $3
	`

	var s payroll.RunSummaryResponse
	err := q.QueryRow(ctx, query, tenantID, periodStart, periodEnd).Scan(
		&s.TotalRuns, &s.DraftCount, &s.ProcessedCount, &s.ApprovedCount, &s.PaidCount,
		&s.TotalGross, &s.TotalDeductions, &s.TotalNet, &s.TotalEmployerCost,
	)
	if err != nil {
		return payroll.RunSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return s, nil
}

func (r *payrollRunRepository) Delete(ctx context.Context, id string, tenantID string) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		var status payroll.RunStatus
		err := tx.QueryRow(txCtx, `
			SELECT status FROM payroll_runs WHERE id = $1 AND tenant_id = $2 FOR UPDATE
		`, id, tenantID).Scan(&status)
		if err != nil {
			if isNoRows(err) {
				return payroll.ErrRunNotFound
			}
			return fmt.Errorf("failed to lock payroll run: %w", err)
		}
		if status != payroll.RunStatusDraft {
			return payroll.ErrCannotDeleteNonDraft
		}

		// Details cascade via FK; a Draft run has never claimed any source
		// records, so there is nothing to release.
		if _, err := tx.Exec(txCtx, `DELETE FROM payroll_runs WHERE id = $1 AND tenant_id = $2`, id, tenantID); err != nil {
			return fmt.Errorf("failed to delete payroll run: %w", err)
		}
		return nil
	})
}

// ========== TRANSITIONS ==========

// CommitProcessed is the single atomic step that turns a calculated Draft
// into a Processed run: totals and detail rows are written, every consumed
// source record is stamped with its detail id, and the status moves under
// a compare-and-set on (status, version). Any claim collision or version
// mismatch rolls the whole commit back.
func (r *payrollRunRepository) CommitProcessed(ctx context.Context, run payroll.PayrollRun, details []payroll.PayrollDetail, consumed []payroll.ConsumedRecords, expectedVersion int64, stamp payroll.TransitionStamp) (payroll.PayrollRun, error) {
	var committed payroll.PayrollRun

	err := WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		query := `
			UPDATE payroll_runs
			SET status = 'processed',
				version = version + 1,
				total_gross = $4, total_deductions = $5, total_net = $6, total_employer_cost = $7,
				processed_at = $8, processed_by = $9, updated_at = NOW()
			WHERE id = $1 AND tenant_id = $2 AND status = 'draft' AND version = $3
			RETURNING ` + runColumns

		var err error
		committed, err = scanRun(tx.QueryRow(txCtx, query,
			run.ID, run.TenantID, expectedVersion,
			run.TotalGross, run.TotalDeductions, run.TotalNet, run.TotalEmployerCost,
			stamp.At, stamp.ActorID,
		))
		if err != nil {
			if isNoRows(err) {
				return r.classifyCASFailure(txCtx, tx, run.ID, run.TenantID, payroll.RunStatusDraft, expectedVersion)
			}
			return fmt.Errorf("failed to commit payroll run: %w", err)
		}

		// Reprocessing a draft replaces any previous detail set.
		if _, err := tx.Exec(txCtx, `DELETE FROM payroll_details WHERE run_id = $1`, run.ID); err != nil {
			return fmt.Errorf("failed to clear payroll details: %w", err)
		}
		for _, d := range details {
			if err := insertDetail(txCtx, tx, d); err != nil {
				return err
			}
		}

		for _, claim := range consumed {
			if err := stampConsumedRecords(txCtx, tx, claim); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	return committed, nil
}

func (r *payrollRunRepository) Transition(ctx context.Context, id string, tenantID string, from, to payroll.RunStatus, expectedVersion int64, stamp payroll.TransitionStamp) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	set := []string{"status = $5", "version = version + 1", "updated_at = NOW()"}
	args := []interface{}{id, tenantID, from, expectedVersion, to}
	argIdx := 6

	switch to {
	case payroll.RunStatusApproved:
		set = append(set, fmt.Sprintf("approved_at = $%d, approved_by = $%d", argIdx, argIdx+1))
		args = append(args, stamp.At, stamp.ActorID)
	case payroll.RunStatusPaid:
		set = append(set, fmt.Sprintf("paid_at = $%d, paid_by = $%d, payment_reference = $%d", argIdx, argIdx+1, argIdx+2))
		args = append(args, stamp.At, stamp.ActorID, stamp.PaymentReference)
	}

	query := fmt.Sprintf(`
		UPDATE payroll_runs
		SET %s
		WHERE id = $1 AND tenant_id = $2 AND status = $3 AND version = $4
		RETURNING %s
	`, strings.Join(set, ", "), runColumns)

	updated, err := scanRun(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return payroll.PayrollRun{}, r.classifyCASFailure(ctx, q, id, tenantID, from, expectedVersion)
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to transition payroll run: %w", err)
	}

	return updated, nil
}

// classifyCASFailure tells apart the three reasons a guarded update can
// match zero rows: missing run, wrong status, stale version.
func (r *payrollRunRepository) classifyCASFailure(ctx context.Context, q database.Querier, id, tenantID string, expectedStatus payroll.RunStatus, expectedVersion int64) error {
	var status payroll.RunStatus
	var version int64
	err := q.QueryRow(ctx, `
		SELECT status, version FROM payroll_runs WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(&status, &version)
	if err != nil {
		if isNoRows(err) {
			return payroll.ErrRunNotFound
		}
		return fmt.Errorf("failed to inspect payroll run: %w", err)
	}
	if status != expectedStatus {
		return fmt.Errorf("run is %s: %w", status, payroll.ErrInvalidTransition)
	}
	return payroll.ErrConcurrencyConflict
}

func insertDetail(ctx context.Context, tx pgx.Tx, d payroll.PayrollDetail) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payroll_details (
			id, run_id, employee_id,
			base_salary, overtime_amount, vacation_amount, bonus_amount, gross_pay,
			css_employee, risk_contribution, edu_employee, income_tax,
			absence_deduction, fixed_deductions, loan_installments, advances,
			other_deductions, total_deductions, net_pay,
			css_employer, edu_employer, employer_cost,
			overtime_hours, absence_days, vacation_days
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19,
			$20, $21, $22,
			$23, $24, $25
		)
	`,
		d.ID, d.RunID, d.EmployeeID,
		d.BaseSalary, d.OvertimeAmount, d.VacationAmount, d.BonusAmount, d.GrossPay,
		d.CSSEmployee, d.RiskContribution, d.EduEmployee, d.IncomeTax,
		d.AbsenceDeduction, d.FixedDeductions, d.LoanInstallments, d.Advances,
		d.OtherDeductions, d.TotalDeductions, d.NetPay,
		d.CSSEmployer, d.EduEmployer, d.EmployerCost,
		d.OvertimeHours, d.AbsenceDays, d.VacationDays,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payroll detail for employee %s: %w", d.EmployeeID, err)
	}
	return nil
}

// stampConsumedRecords marks every source record a detail row consumed.
// The WHERE payroll_detail_id IS NULL guard makes claiming first-wins: a
// record another run already stamped fails this commit.
func stampConsumedRecords(ctx context.Context, tx pgx.Tx, claim payroll.ConsumedRecords) error {
	stampTables := []struct {
		table string
		ids   []string
	}{
		{"overtime_records", claim.OvertimeIDs},
		{"absence_records", claim.AbsenceIDs},
		{"vacation_records", claim.VacationIDs},
	}
	for _, st := range stampTables {
		for _, id := range st.ids {
			tag, err := tx.Exec(ctx, fmt.Sprintf(`
				UPDATE %s SET payroll_detail_id = $1 WHERE id = $2 AND payroll_detail_id IS NULL
			`, st.table), claim.DetailID, id)
			if err != nil {
				return fmt.Errorf("failed to stamp %s record %s: %w", st.table, id, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%s record %s: %w", st.table, id, payroll.ErrSourceRecordClaimed)
			}
		}
	}

	for _, id := range claim.AdvanceIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE advances
			SET payroll_detail_id = $1, status = 'deducted'
			WHERE id = $2 AND payroll_detail_id IS NULL AND status = 'approved'
		`, claim.DetailID, id)
		if err != nil {
			return fmt.Errorf("failed to stamp advance %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("advance %s: %w", id, payroll.ErrSourceRecordClaimed)
		}
	}

	for _, payment := range claim.LoanPayments {
		_, err := tx.Exec(ctx, `
			INSERT INTO loan_payments (loan_id, payroll_detail_id, amount, remaining_balance)
			VALUES ($1, $2, $3, $4)
		`, payment.LoanID, claim.DetailID, payment.Amount, payment.RemainingBalance)
		if err != nil {
			return fmt.Errorf("failed to record loan payment for %s: %w", payment.LoanID, err)
		}

		status := payroll.LoanStatusActive
		if payment.Settled {
			status = payroll.LoanStatusPaid
		}
		// Compare-and-set on the balance the installment was computed from:
		// a concurrent run that already repaid this loan leaves a different
		// balance behind and this commit must fail, not double-deduct.
		tag, err := tx.Exec(ctx, `
			UPDATE loans
			SET outstanding_balance = $1, status = $2, updated_at = NOW()
			WHERE id = $3 AND status = 'active' AND outstanding_balance = $4
		`, payment.RemainingBalance, status, payment.LoanID, payment.PreviousBalance)
		if err != nil {
			return fmt.Errorf("failed to update loan %s: %w", payment.LoanID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("loan %s: %w", payment.LoanID, payroll.ErrSourceRecordClaimed)
		}
	}

	return nil
}
