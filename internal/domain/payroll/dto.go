package payroll

import (
	"fmt"
	"time"

	"github.com/planillapro/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type CreateRunRequest struct {
	RunNumber   string `json:"run_number"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PayDate     string `json:"pay_date"`
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RunNumber) {
		errs = append(errs, validator.ValidationError{Field: "run_number", Message: "is required"})
	} else if !validator.IsValidRunNumber(r.RunNumber) {
		errs = append(errs, validator.ValidationError{Field: "run_number", Message: "may only contain letters, digits, '-' and '_' (max 50 chars)"})
	}
	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if _, ok := validator.IsValidDate(r.PayDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates parses the request's date fields. Validate already guarantees the
// format; any residual parse failure maps to ErrInvalidPeriod instead of
// being silently dropped.
func (r *CreateRunRequest) Dates() (periodStart, periodEnd, payDate time.Time, err error) {
	periodStart, err = time.Parse("2006-01-02", r.PeriodStart)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, fmt.Errorf("period_start: %w", ErrInvalidPeriod)
	}
	periodEnd, err = time.Parse("2006-01-02", r.PeriodEnd)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, fmt.Errorf("period_end: %w", ErrInvalidPeriod)
	}
	payDate, err = time.Parse("2006-01-02", r.PayDate)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, fmt.Errorf("pay_date: %w", ErrInvalidPeriod)
	}
	return periodStart, periodEnd, payDate, nil
}

type ApproveRunRequest struct {
	ApproverID string `json:"-"`
}

type MarkPaidRequest struct {
	PaymentReference string `json:"payment_reference"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PaymentReference) {
		errs = append(errs, validator.ValidationError{Field: "payment_reference", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESULTS ==========

// EmployeeFailure records one employee the run could not calculate.
type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// RunTotals are the aggregated amounts of a processed run.
type RunTotals struct {
	Gross        decimal.Decimal `json:"gross"`
	Deductions   decimal.Decimal `json:"deductions"`
	Net          decimal.Decimal `json:"net"`
	EmployerCost decimal.Decimal `json:"employer_cost"`
}

// RunResult is the outcome of ProcessRun: how many employees succeeded,
// which failed and why, and the committed totals. A run with failures is
// still Processed as long as at least one employee succeeded; callers must
// surface the failures rather than treat the run as complete.
type RunResult struct {
	RunID          string            `json:"run_id"`
	ProcessedCount int               `json:"processed_count"`
	Failed         []EmployeeFailure `json:"failed,omitempty"`
	Totals         RunTotals         `json:"totals"`
}

// ========== RESPONSES ==========

type RunResponse struct {
	ID                string           `json:"id"`
	TenantID          string           `json:"tenant_id"`
	RunNumber         string           `json:"run_number"`
	PeriodStart       string           `json:"period_start"`
	PeriodEnd         string           `json:"period_end"`
	PayDate           string           `json:"pay_date"`
	Status            string           `json:"status"`
	TotalGross        decimal.Decimal  `json:"total_gross"`
	TotalDeductions   decimal.Decimal  `json:"total_deductions"`
	TotalNet          decimal.Decimal  `json:"total_net"`
	TotalEmployerCost decimal.Decimal  `json:"total_employer_cost"`
	ProcessedAt       *string          `json:"processed_at,omitempty"`
	ProcessedBy       *string          `json:"processed_by,omitempty"`
	ApprovedAt        *string          `json:"approved_at,omitempty"`
	ApprovedBy        *string          `json:"approved_by,omitempty"`
	PaidAt            *string          `json:"paid_at,omitempty"`
	PaidBy            *string          `json:"paid_by,omitempty"`
	PaymentReference  *string          `json:"payment_reference,omitempty"`
	Version           int64            `json:"version"`
	Details           []DetailResponse `json:"details,omitempty"`
}

type DetailResponse struct {
	ID               string          `json:"id"`
	RunID            string          `json:"run_id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	EmployeeCode     *string         `json:"employee_code,omitempty"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	OvertimeAmount   decimal.Decimal `json:"overtime_amount"`
	VacationAmount   decimal.Decimal `json:"vacation_amount"`
	BonusAmount      decimal.Decimal `json:"bonus_amount"`
	GrossPay         decimal.Decimal `json:"gross_pay"`
	CSSEmployee      decimal.Decimal `json:"css_employee"`
	RiskContribution decimal.Decimal `json:"risk_contribution"`
	EduEmployee      decimal.Decimal `json:"edu_employee"`
	IncomeTax        decimal.Decimal `json:"income_tax"`
	AbsenceDeduction decimal.Decimal `json:"absence_deduction"`
	FixedDeductions  decimal.Decimal `json:"fixed_deductions"`
	LoanInstallments decimal.Decimal `json:"loan_installments"`
	Advances         decimal.Decimal `json:"advances"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetPay           decimal.Decimal `json:"net_pay"`
	CSSEmployer      decimal.Decimal `json:"css_employer"`
	EduEmployer      decimal.Decimal `json:"edu_employer"`
	EmployerCost     decimal.Decimal `json:"employer_cost"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	AbsenceDays      decimal.Decimal `json:"absence_days"`
	VacationDays     decimal.Decimal `json:"vacation_days"`
}

type RunFilter struct {
	Status      *string    `json:"status,omitempty"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
	Page        int        `json:"page"`
	Limit       int        `json:"limit"`
}

type ListRunResponse struct {
	Data       []RunResponse `json:"data"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

type RunSummaryResponse struct {
	TotalRuns         int             `json:"total_runs"`
	DraftCount        int             `json:"draft_count"`
	ProcessedCount    int             `json:"processed_count"`
	ApprovedCount     int             `json:"approved_count"`
	PaidCount         int             `json:"paid_count"`
	TotalGross        decimal.Decimal `json:"total_gross"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalNet          decimal.Decimal `json:"total_net"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
}
