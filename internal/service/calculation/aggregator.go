package calculation

import (
	"sort"
	"time"

	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/planillapro/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Compensation is the aggregated attendance and ad-hoc compensation for
// one employee and period, together with the identifiers of every record
// that produced it (needed for claim stamping at commit).
type Compensation struct {
	Overtime      decimal.Decimal
	OvertimeHours decimal.Decimal

	AbsenceDeduction decimal.Decimal
	AbsenceDays      decimal.Decimal

	VacationPayout decimal.Decimal
	VacationDays   decimal.Decimal

	LoanInstallments decimal.Decimal
	LoanPayments     []payroll.LoanPayment

	Advances decimal.Decimal

	OvertimeIDs []string
	AbsenceIDs  []string
	VacationIDs []string
	AdvanceIDs  []string
}

// AggregateSources nets one employee's unconsumed source records for the
// period. The provider has already filtered to approved, unconsumed
// records; this function applies the remaining business rules:
//   - absences discount salary only when flagged AffectsSalary
//   - one installment per active loan, capped at the outstanding balance
//     (an overpaying installment settles the loan instead)
//   - advances apply only when their discount date falls in the period
//
// Sums are rounded once at the end, never per record.
func AggregateSources(records payroll.SourceRecords, periodStart, periodEnd time.Time) Compensation {
	var comp Compensation

	overtime := decimal.Zero
	overtimeHours := decimal.Zero
	for _, ot := range records.Overtime {
		overtime = overtime.Add(ot.Amount)
		overtimeHours = overtimeHours.Add(ot.Hours)
		comp.OvertimeIDs = append(comp.OvertimeIDs, ot.ID)
	}
	comp.Overtime = money.RoundCurrency(overtime)
	comp.OvertimeHours = money.RoundQuantity(overtimeHours)

	absence := decimal.Zero
	absenceDays := decimal.Zero
	for _, ab := range records.Absences {
		if !ab.AffectsSalary {
			continue
		}
		absence = absence.Add(ab.Amount)
		absenceDays = absenceDays.Add(ab.Days)
		comp.AbsenceIDs = append(comp.AbsenceIDs, ab.ID)
	}
	comp.AbsenceDeduction = money.RoundCurrency(absence)
	comp.AbsenceDays = money.RoundQuantity(absenceDays)

	vacation := decimal.Zero
	vacationDays := decimal.Zero
	for _, v := range records.Vacations {
		vacation = vacation.Add(v.Amount)
		vacationDays = vacationDays.Add(v.Days)
		comp.VacationIDs = append(comp.VacationIDs, v.ID)
	}
	comp.VacationPayout = money.RoundCurrency(vacation)
	comp.VacationDays = money.RoundQuantity(vacationDays)

	installments := decimal.Zero
	for _, loan := range records.Loans {
		if loan.Status != payroll.LoanStatusActive || !loan.OutstandingBalance.IsPositive() {
			continue
		}
		amount := money.Min(loan.MonthlyInstallment, loan.OutstandingBalance)
		remaining := loan.OutstandingBalance.Sub(amount)
		installments = installments.Add(amount)
		comp.LoanPayments = append(comp.LoanPayments, payroll.LoanPayment{
			LoanID:           loan.ID,
			Amount:           amount,
			PreviousBalance:  loan.OutstandingBalance,
			RemainingBalance: remaining,
			Settled:          remaining.IsZero(),
		})
	}
	comp.LoanInstallments = money.RoundCurrency(installments)

	advances := decimal.Zero
	for _, adv := range records.Advances {
		if adv.Status != payroll.AdvanceStatusApproved {
			continue
		}
		if adv.DiscountDate.Before(periodStart) || adv.DiscountDate.After(periodEnd) {
			continue
		}
		advances = advances.Add(adv.Amount)
		comp.AdvanceIDs = append(comp.AdvanceIDs, adv.ID)
	}
	comp.Advances = money.RoundCurrency(advances)

	return comp
}

// ApplyFixedDeductions applies the employee's active fixed deductions in
// ascending priority against the remaining balance and returns the total
// withheld. Percentage deductions are computed on gross pay. Once the
// balance reaches zero, later deductions are capped at zero; net pay
// never goes negative through this path.
func ApplyFixedDeductions(deductions []payroll.FixedDeduction, grossPay, remaining decimal.Decimal) decimal.Decimal {
	ordered := make([]payroll.FixedDeduction, len(deductions))
	copy(ordered, deductions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	total := decimal.Zero
	for _, d := range ordered {
		if !remaining.IsPositive() {
			break
		}
		var amount decimal.Decimal
		if d.Kind == payroll.DeductionKindPercent {
			amount = money.RoundCurrency(grossPay.Mul(d.Amount))
		} else {
			amount = money.RoundCurrency(d.Amount)
		}
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		total = total.Add(amount)
		remaining = remaining.Sub(amount)
	}
	return total
}
