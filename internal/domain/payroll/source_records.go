package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source records are the finalized outputs of the surrounding CRUD
// subsystems (overtime approvals, absence records, vacation payouts,
// fixed deductions, loans, advances). The provider returns only records
// not yet attached to a payroll detail; once a run reaches Processed each
// consumed record is stamped with the owning detail's id so no later run
// can consume it again.

// OvertimeCategory enum
type OvertimeCategory string

const (
	OvertimeWeekday OvertimeCategory = "weekday"
	OvertimeWeekend OvertimeCategory = "weekend"
	OvertimeHoliday OvertimeCategory = "holiday"
)

// OvertimeRecord - approved overtime, already monetized by the attendance
// subsystem.
type OvertimeRecord struct {
	ID         string
	EmployeeID string
	Category   OvertimeCategory
	Hours      decimal.Decimal
	Amount     decimal.Decimal
}

// AbsenceRecord - an unjustified absence. Only records with AffectsSalary
// produce a discount.
type AbsenceRecord struct {
	ID            string
	EmployeeID    string
	Days          decimal.Decimal
	Amount        decimal.Decimal
	AffectsSalary bool
}

// VacationRecord - an approved vacation payout.
type VacationRecord struct {
	ID         string
	EmployeeID string
	Days       decimal.Decimal
	Amount     decimal.Decimal
}

// DeductionKind enum
type DeductionKind string

const (
	DeductionKindFixed   DeductionKind = "fixed"
	DeductionKindPercent DeductionKind = "percent"
)

// FixedDeduction - a recurring prioritized withholding (garnishment,
// private insurance, union dues). Lower Priority is applied first; once
// the remaining balance hits zero, later deductions are capped.
type FixedDeduction struct {
	ID         string
	EmployeeID string
	Name       string
	Priority   int
	Kind       DeductionKind
	// Amount is a currency amount for fixed deductions and a fraction of
	// gross pay (e.g. 0.5 for 50%) for percentage deductions.
	Amount decimal.Decimal
}

// LoanStatus enum
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusPaid   LoanStatus = "paid"
)

// Loan - an employee loan repaid one installment per run. When the
// installment would overpay the outstanding balance, the balance is
// deducted instead and the loan settles.
type Loan struct {
	ID                 string
	EmployeeID         string
	Status             LoanStatus
	MonthlyInstallment decimal.Decimal
	OutstandingBalance decimal.Decimal
}

// AdvanceStatus enum
type AdvanceStatus string

const (
	AdvanceStatusApproved AdvanceStatus = "approved"
	AdvanceStatusDeducted AdvanceStatus = "deducted"
)

// Advance - an approved salary advance discounted in the period containing
// its DiscountDate.
type Advance struct {
	ID           string
	EmployeeID   string
	Amount       decimal.Decimal
	DiscountDate time.Time
	Status       AdvanceStatus
}

// SourceRecords bundles one employee's unconsumed records for a period.
type SourceRecords struct {
	Overtime        []OvertimeRecord
	Absences        []AbsenceRecord
	Vacations       []VacationRecord
	FixedDeductions []FixedDeduction
	Loans           []Loan
	Advances        []Advance
}

// LoanPayment - the repayment applied to one loan by one detail row.
// PreviousBalance is the outstanding balance the installment was computed
// from; the commit compare-and-sets on it so two runs that loaded the same
// loan cannot both deduct an installment.
type LoanPayment struct {
	LoanID           string
	Amount           decimal.Decimal
	PreviousBalance  decimal.Decimal
	RemainingBalance decimal.Decimal
	Settled          bool
}

// ConsumedRecords identifies everything a detail row consumed. Stamped
// atomically with the transition to Processed; stamping an already-claimed
// record fails the commit.
type ConsumedRecords struct {
	DetailID     string
	EmployeeID   string
	OvertimeIDs  []string
	AbsenceIDs   []string
	VacationIDs  []string
	AdvanceIDs   []string
	LoanPayments []LoanPayment
}
