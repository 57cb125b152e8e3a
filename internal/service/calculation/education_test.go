package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateEducation(t *testing.T) {
	cfg := testTaxConfig() // employee 1.25%, employer 1.5%

	got := CalculateEducation(dec("1000.00"), cfg, true)
	assert.True(t, got.Employee.Equal(dec("12.50")), "employee = %s", got.Employee)
	assert.True(t, got.Employer.Equal(dec("15.00")), "employer = %s", got.Employer)
}

func TestCalculateEducation_NoCap(t *testing.T) {
	// Unlike CSS there is no maximum base: the amount keeps growing with
	// gross pay.
	cfg := testTaxConfig()

	low := CalculateEducation(dec("5000.00"), cfg, true)
	high := CalculateEducation(dec("50000.00"), cfg, true)
	assert.True(t, high.Employee.GreaterThan(low.Employee))
}

func TestCalculateEducation_NotSubject(t *testing.T) {
	got := CalculateEducation(dec("1000.00"), testTaxConfig(), false)
	assert.True(t, got.Employee.IsZero())
	assert.True(t, got.Employer.IsZero())
}
