package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft     RunStatus = "draft"
	RunStatusProcessed RunStatus = "processed"
	RunStatusApproved  RunStatus = "approved"
	RunStatusPaid      RunStatus = "paid"
)

// CanTransitionTo reports whether the run lifecycle allows moving from s
// to target. No state is skipped and there is no backward transition;
// a Draft run can only be deleted, never rolled back into.
func (s RunStatus) CanTransitionTo(target RunStatus) bool {
	switch s {
	case RunStatusDraft:
		return target == RunStatusProcessed
	case RunStatusProcessed:
		return target == RunStatusApproved
	case RunStatusApproved:
		return target == RunStatusPaid
	default:
		return false
	}
}

// PayrollRun - one payroll batch for a tenant and period. Totals are the
// exact sum of the detail rows once the run is Processed. Version is the
// optimistic concurrency token checked on every mutation.
type PayrollRun struct {
	ID          string
	TenantID    string
	RunNumber   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	PayDate     time.Time
	Status      RunStatus

	TotalGross        decimal.Decimal
	TotalDeductions   decimal.Decimal
	TotalNet          decimal.Decimal
	TotalEmployerCost decimal.Decimal

	ProcessedAt      *time.Time
	ProcessedBy      *string
	ApprovedAt       *time.Time
	ApprovedBy       *string
	PaidAt           *time.Time
	PaidBy           *string
	PaymentReference *string

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	Details []PayrollDetail
}

// PayrollDetail - one employee's result in a run, unique on (RunID,
// EmployeeID). Owned by its run; deleted only by cascading deletion of a
// Draft run.
type PayrollDetail struct {
	ID         string
	RunID      string
	EmployeeID string

	// Gross components
	BaseSalary     decimal.Decimal
	OvertimeAmount decimal.Decimal
	VacationAmount decimal.Decimal
	BonusAmount    decimal.Decimal
	GrossPay       decimal.Decimal

	// Employee-side deductions
	CSSEmployee      decimal.Decimal
	RiskContribution decimal.Decimal
	EduEmployee      decimal.Decimal
	IncomeTax        decimal.Decimal
	AbsenceDeduction decimal.Decimal
	FixedDeductions  decimal.Decimal
	LoanInstallments decimal.Decimal
	Advances         decimal.Decimal
	OtherDeductions  decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal

	// Employer-side costs
	CSSEmployer  decimal.Decimal
	EduEmployer  decimal.Decimal
	EmployerCost decimal.Decimal

	// Attendance quantities kept for traceability
	OvertimeHours decimal.Decimal
	AbsenceDays   decimal.Decimal
	VacationDays  decimal.Decimal

	CreatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
