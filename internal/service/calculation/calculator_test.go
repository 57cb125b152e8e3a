package calculation

import (
	"testing"

	"github.com/planillapro/payroll-backend-go/internal/domain/employee"
	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPeriod() Period {
	return Period{
		Start:   periodStart,
		End:     periodEnd,
		PayDate: periodEnd,
	}
}

func TestCalculateEmployee_FullPipeline(t *testing.T) {
	calc := NewCalculator()

	got, err := calc.CalculateEmployee(baseProfile(), testPeriod(), testTaxConfig(), testBrackets(), payroll.SourceRecords{})
	require.NoError(t, err)

	d := got.Detail
	assert.True(t, d.GrossPay.Equal(dec("1000.00")))
	assert.True(t, d.CSSEmployee.Equal(dec("97.50")))
	assert.True(t, d.RiskContribution.Equal(dec("9.80")))
	assert.True(t, d.EduEmployee.Equal(dec("12.50")))
	assert.True(t, d.IncomeTax.Equal(dec("37.50")))
	assert.True(t, d.TotalDeductions.Equal(dec("157.30")))
	assert.True(t, d.NetPay.Equal(dec("842.70")))
	assert.True(t, d.CSSEmployer.Equal(dec("122.50")))
	assert.True(t, d.EduEmployer.Equal(dec("15.00")))
	assert.True(t, d.EmployerCost.Equal(dec("1137.50")))

	// Internal consistency the run totals depend on.
	assert.True(t, d.NetPay.Equal(d.GrossPay.Sub(d.TotalDeductions)))
}

func TestCalculateEmployee_NetPayNeverNegative(t *testing.T) {
	calc := NewCalculator()

	profile := baseProfile()
	profile.SubjectToCSS = false
	profile.SubjectToEduInsurance = false
	profile.SubjectToIncomeTax = false

	records := payroll.SourceRecords{
		Loans: []payroll.Loan{
			{ID: "loan-1", Status: payroll.LoanStatusActive, MonthlyInstallment: dec("200.00"), OutstandingBalance: dec("1000.00")},
		},
		Advances: []payroll.Advance{
			{ID: "adv-1", Amount: dec("100.00"), DiscountDate: periodStart.AddDate(0, 0, 5), Status: payroll.AdvanceStatusApproved},
		},
		FixedDeductions: []payroll.FixedDeduction{
			{ID: "fd-1", Priority: 1, Kind: payroll.DeductionKindFixed, Amount: dec("2000.00")},
			{ID: "fd-2", Priority: 2, Kind: payroll.DeductionKindPercent, Amount: dec("0.5")},
		},
	}

	got, err := calc.CalculateEmployee(profile, testPeriod(), testTaxConfig(), testBrackets(), records)
	require.NoError(t, err)

	// Loan and advance leave 700.00; the fixed deductions are capped there.
	assert.True(t, got.Detail.FixedDeductions.Equal(dec("700.00")))
	assert.True(t, got.Detail.NetPay.IsZero(), "net = %s, want 0", got.Detail.NetPay)
}

func TestCalculateEmployee_Idempotent(t *testing.T) {
	calc := NewCalculator()
	records := payroll.SourceRecords{
		Overtime: []payroll.OvertimeRecord{
			{ID: "ot-1", Category: payroll.OvertimeWeekday, Hours: dec("2"), Amount: dec("30.00")},
		},
		Loans: []payroll.Loan{
			{ID: "loan-1", Status: payroll.LoanStatusActive, MonthlyInstallment: dec("75.00"), OutstandingBalance: dec("300.00")},
		},
	}

	first, err := calc.CalculateEmployee(baseProfile(), testPeriod(), testTaxConfig(), testBrackets(), records)
	require.NoError(t, err)
	second, err := calc.CalculateEmployee(baseProfile(), testPeriod(), testTaxConfig(), testBrackets(), records)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield identical output")
}

func TestCalculateEmployee_MissingBaseSalary(t *testing.T) {
	calc := NewCalculator()
	profile := baseProfile()
	profile.BaseSalary = decimal.Zero

	_, err := calc.CalculateEmployee(profile, testPeriod(), testTaxConfig(), testBrackets(), payroll.SourceRecords{})
	assert.ErrorIs(t, err, employee.ErrMissingBaseSalary)
}

func TestCalculateEmployee_BracketGapSurfaces(t *testing.T) {
	calc := NewCalculator()

	// Empty bracket table: the tax step cannot resolve a bracket.
	_, err := calc.CalculateEmployee(baseProfile(), testPeriod(), testTaxConfig(), nil, payroll.SourceRecords{})
	assert.Error(t, err)
}

func TestCalculateEmployee_ConsumedRecordsMatchDetail(t *testing.T) {
	calc := NewCalculator()
	records := payroll.SourceRecords{
		Overtime: []payroll.OvertimeRecord{
			{ID: "ot-1", Hours: dec("2"), Amount: dec("30.00")},
		},
		Vacations: []payroll.VacationRecord{
			{ID: "vac-1", Days: dec("3"), Amount: dec("120.00")},
		},
		Absences: []payroll.AbsenceRecord{
			{ID: "ab-1", Days: dec("1"), Amount: dec("40.00"), AffectsSalary: true},
		},
		Advances: []payroll.Advance{
			{ID: "adv-1", Amount: dec("50.00"), DiscountDate: periodStart, Status: payroll.AdvanceStatusApproved},
		},
	}

	got, err := calc.CalculateEmployee(baseProfile(), testPeriod(), testTaxConfig(), testBrackets(), records)
	require.NoError(t, err)

	assert.Equal(t, []string{"ot-1"}, got.Consumed.OvertimeIDs)
	assert.Equal(t, []string{"vac-1"}, got.Consumed.VacationIDs)
	assert.Equal(t, []string{"ab-1"}, got.Consumed.AbsenceIDs)
	assert.Equal(t, []string{"adv-1"}, got.Consumed.AdvanceIDs)
	assert.Empty(t, got.Consumed.LoanPayments)
	assert.Equal(t, "emp-1", got.Consumed.EmployeeID)

	assert.True(t, got.Detail.GrossPay.Equal(dec("1150.00"))) // 1000 + 30 + 120
}
