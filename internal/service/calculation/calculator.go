package calculation

import (
	"fmt"
	"time"

	"github.com/planillapro/payroll-backend-go/internal/domain/employee"
	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/planillapro/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Period is the payroll period a run covers.
type Period struct {
	Start   time.Time
	End     time.Time
	PayDate time.Time
}

// Result is the output of CalculateEmployee: the detail row plus the
// claim set of source records it consumed. Consumed.DetailID is filled in
// by the orchestrator once detail ids are assigned.
type Result struct {
	Detail   payroll.PayrollDetail
	Consumed payroll.ConsumedRecords
}

type Calculator struct {
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateEmployee runs the full per-employee pipeline: aggregate source
// records into gross pay, then CSS, educational insurance, progressive
// income tax, and finally prioritized fixed deductions against the
// remaining balance. The function is pure: identical inputs always yield
// identical output, and nothing is persisted here.
func (c *Calculator) CalculateEmployee(
	profile employee.PayProfile,
	period Period,
	cfg taxconfig.TaxConfiguration,
	brackets []taxconfig.TaxBracket,
	records payroll.SourceRecords,
) (Result, error) {
	if !profile.BaseSalary.IsPositive() {
		return Result{}, fmt.Errorf("employee %s: %w", profile.EmployeeID, employee.ErrMissingBaseSalary)
	}
	switch profile.PayFrequency {
	case employee.PayFrequencyMonthly, employee.PayFrequencySemiMonthly,
		employee.PayFrequencyBiweekly, employee.PayFrequencyWeekly:
	default:
		return Result{}, fmt.Errorf("employee %s: %w", profile.EmployeeID, employee.ErrInvalidPayFrequency)
	}

	comp := AggregateSources(records, period.Start, period.End)

	grossPay := profile.BaseSalary.Add(comp.Overtime).Add(comp.VacationPayout)

	css := CalculateCSS(grossPay, profile, cfg)
	edu := CalculateEducation(grossPay, cfg, profile.SubjectToEduInsurance)

	incomeTax, err := CalculateIncomeTax(grossPay, profile.PayFrequency, profile.Dependents, cfg, brackets, profile.SubjectToIncomeTax)
	if err != nil {
		return Result{}, fmt.Errorf("employee %s: %w", profile.EmployeeID, err)
	}

	// Fixed deductions come last: they are capped at whatever balance the
	// statutory deductions and the other streams left behind.
	remaining := grossPay.
		Sub(css.Employee).
		Sub(css.Risk).
		Sub(edu.Employee).
		Sub(incomeTax).
		Sub(comp.AbsenceDeduction).
		Sub(comp.LoanInstallments).
		Sub(comp.Advances)
	fixed := ApplyFixedDeductions(records.FixedDeductions, grossPay, remaining)

	totalDeductions := css.Employee.
		Add(css.Risk).
		Add(edu.Employee).
		Add(incomeTax).
		Add(comp.AbsenceDeduction).
		Add(fixed).
		Add(comp.LoanInstallments).
		Add(comp.Advances)
	netPay := grossPay.Sub(totalDeductions)
	employerCost := grossPay.Add(css.EmployerBase).Add(edu.Employer)

	detail := payroll.PayrollDetail{
		EmployeeID: profile.EmployeeID,

		BaseSalary:     profile.BaseSalary,
		OvertimeAmount: comp.Overtime,
		VacationAmount: comp.VacationPayout,
		BonusAmount:    decimal.Zero,
		GrossPay:       money.RoundCurrency(grossPay),

		CSSEmployee:      css.Employee,
		RiskContribution: css.Risk,
		EduEmployee:      edu.Employee,
		IncomeTax:        incomeTax,
		AbsenceDeduction: comp.AbsenceDeduction,
		FixedDeductions:  fixed,
		LoanInstallments: comp.LoanInstallments,
		Advances:         comp.Advances,
		OtherDeductions:  decimal.Zero,
		TotalDeductions:  money.RoundCurrency(totalDeductions),
		NetPay:           money.RoundCurrency(netPay),

		CSSEmployer:  css.EmployerBase,
		EduEmployer:  edu.Employer,
		EmployerCost: money.RoundCurrency(employerCost),

		OvertimeHours: comp.OvertimeHours,
		AbsenceDays:   comp.AbsenceDays,
		VacationDays:  comp.VacationDays,
	}

	consumed := payroll.ConsumedRecords{
		EmployeeID:   profile.EmployeeID,
		OvertimeIDs:  comp.OvertimeIDs,
		AbsenceIDs:   comp.AbsenceIDs,
		VacationIDs:  comp.VacationIDs,
		AdvanceIDs:   comp.AdvanceIDs,
		LoanPayments: comp.LoanPayments,
	}

	return Result{Detail: detail, Consumed: consumed}, nil
}
