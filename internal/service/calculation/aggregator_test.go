package calculation

import (
	"testing"
	"time"

	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	periodStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
)

func TestAggregateSources_OvertimeAndVacations(t *testing.T) {
	records := payroll.SourceRecords{
		Overtime: []payroll.OvertimeRecord{
			{ID: "ot-1", Category: payroll.OvertimeWeekday, Hours: dec("4.5"), Amount: dec("45.00")},
			{ID: "ot-2", Category: payroll.OvertimeHoliday, Hours: dec("3"), Amount: dec("60.00")},
		},
		Vacations: []payroll.VacationRecord{
			{ID: "vac-1", Days: dec("5"), Amount: dec("250.00")},
		},
	}

	comp := AggregateSources(records, periodStart, periodEnd)

	assert.True(t, comp.Overtime.Equal(dec("105.00")))
	assert.True(t, comp.OvertimeHours.Equal(dec("7.5")))
	assert.True(t, comp.VacationPayout.Equal(dec("250.00")))
	assert.True(t, comp.VacationDays.Equal(dec("5")))
	assert.ElementsMatch(t, []string{"ot-1", "ot-2"}, comp.OvertimeIDs)
	assert.ElementsMatch(t, []string{"vac-1"}, comp.VacationIDs)
}

func TestAggregateSources_AbsencesOnlyWhenAffectingSalary(t *testing.T) {
	records := payroll.SourceRecords{
		Absences: []payroll.AbsenceRecord{
			{ID: "ab-1", Days: dec("1"), Amount: dec("33.33"), AffectsSalary: true},
			{ID: "ab-2", Days: dec("2"), Amount: dec("66.66"), AffectsSalary: false},
		},
	}

	comp := AggregateSources(records, periodStart, periodEnd)

	assert.True(t, comp.AbsenceDeduction.Equal(dec("33.33")))
	assert.True(t, comp.AbsenceDays.Equal(dec("1")))
	assert.Equal(t, []string{"ab-1"}, comp.AbsenceIDs, "non-affecting absences are not consumed")
}

func TestAggregateSources_LoanInstallmentCappedAtBalance(t *testing.T) {
	// Outstanding 150.00 with installment 200.00: deduct 150.00 and settle.
	records := payroll.SourceRecords{
		Loans: []payroll.Loan{
			{ID: "loan-1", Status: payroll.LoanStatusActive, MonthlyInstallment: dec("200.00"), OutstandingBalance: dec("150.00")},
		},
	}

	comp := AggregateSources(records, periodStart, periodEnd)

	require.Len(t, comp.LoanPayments, 1)
	payment := comp.LoanPayments[0]
	assert.True(t, payment.Amount.Equal(dec("150.00")))
	assert.True(t, payment.RemainingBalance.IsZero())
	assert.True(t, payment.Settled)
	assert.True(t, comp.LoanInstallments.Equal(dec("150.00")))
}

func TestAggregateSources_LoanRegularInstallment(t *testing.T) {
	records := payroll.SourceRecords{
		Loans: []payroll.Loan{
			{ID: "loan-1", Status: payroll.LoanStatusActive, MonthlyInstallment: dec("200.00"), OutstandingBalance: dec("1000.00")},
			{ID: "loan-2", Status: payroll.LoanStatusPaid, MonthlyInstallment: dec("50.00"), OutstandingBalance: dec("0")},
		},
	}

	comp := AggregateSources(records, periodStart, periodEnd)

	require.Len(t, comp.LoanPayments, 1, "settled loans contribute nothing")
	assert.True(t, comp.LoanPayments[0].Amount.Equal(dec("200.00")))
	assert.True(t, comp.LoanPayments[0].PreviousBalance.Equal(dec("1000.00")), "payment carries the balance it was computed from")
	assert.True(t, comp.LoanPayments[0].RemainingBalance.Equal(dec("800.00")))
	assert.False(t, comp.LoanPayments[0].Settled)
}

func TestAggregateSources_AdvancesFilteredByDiscountDate(t *testing.T) {
	records := payroll.SourceRecords{
		Advances: []payroll.Advance{
			{ID: "adv-1", Amount: dec("100.00"), DiscountDate: periodStart.AddDate(0, 0, 10), Status: payroll.AdvanceStatusApproved},
			{ID: "adv-2", Amount: dec("75.00"), DiscountDate: periodEnd.AddDate(0, 1, 0), Status: payroll.AdvanceStatusApproved},
			{ID: "adv-3", Amount: dec("50.00"), DiscountDate: periodStart, Status: payroll.AdvanceStatusDeducted},
		},
	}

	comp := AggregateSources(records, periodStart, periodEnd)

	assert.True(t, comp.Advances.Equal(dec("100.00")))
	assert.Equal(t, []string{"adv-1"}, comp.AdvanceIDs)
}

func TestApplyFixedDeductions_PriorityOrderAndCapping(t *testing.T) {
	// Gross 1000.00 with 300.00 remaining after statutory deductions.
	// Priority 1 fixed 2000.00 exhausts the balance (capped at 300.00);
	// priority 2, a 50% percentage deduction, gets nothing.
	deductions := []payroll.FixedDeduction{
		{ID: "fd-2", Name: "union dues", Priority: 2, Kind: payroll.DeductionKindPercent, Amount: dec("0.5")},
		{ID: "fd-1", Name: "garnishment", Priority: 1, Kind: payroll.DeductionKindFixed, Amount: dec("2000.00")},
	}

	total := ApplyFixedDeductions(deductions, dec("1000.00"), dec("300.00"))
	assert.True(t, total.Equal(dec("300.00")), "total withheld = %s, want 300.00", total)
}

func TestApplyFixedDeductions_AllFitWithinBalance(t *testing.T) {
	deductions := []payroll.FixedDeduction{
		{ID: "fd-1", Priority: 1, Kind: payroll.DeductionKindFixed, Amount: dec("50.00")},
		{ID: "fd-2", Priority: 2, Kind: payroll.DeductionKindPercent, Amount: dec("0.1")}, // 10% of 1000
	}

	total := ApplyFixedDeductions(deductions, dec("1000.00"), dec("800.00"))
	assert.True(t, total.Equal(dec("150.00")))
}

func TestApplyFixedDeductions_ZeroRemaining(t *testing.T) {
	deductions := []payroll.FixedDeduction{
		{ID: "fd-1", Priority: 1, Kind: payroll.DeductionKindFixed, Amount: dec("50.00")},
	}

	total := ApplyFixedDeductions(deductions, dec("1000.00"), dec("0"))
	assert.True(t, total.IsZero())
}
