package response

import (
	"errors"
	"net/http"

	"github.com/planillapro/payroll-backend-go/internal/domain/employee"
	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/planillapro/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll run errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrDetailNotFound):
		NotFound(w, "Payroll detail not found")
	case errors.Is(err, payroll.ErrRunNumberExists):
		Conflict(w, "Run number already exists")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrConcurrencyConflict):
		Conflict(w, "Payroll run was modified concurrently, re-read and retry")
	case errors.Is(err, payroll.ErrCannotDeleteNonDraft):
		Conflict(w, "Only draft runs can be deleted")
	case errors.Is(err, payroll.ErrSourceRecordClaimed):
		Conflict(w, "A source record was already consumed by another run")
	case errors.Is(err, payroll.ErrNoEmployeesProcessed):
		UnprocessableEntity(w, "No employee could be calculated, run aborted")
	case errors.Is(err, payroll.ErrEmptyRoster):
		UnprocessableEntity(w, "No active employees in scope for this run")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Tax configuration errors
	case errors.Is(err, taxconfig.ErrConfigurationNotFound):
		UnprocessableEntity(w, "No tax configuration covers the pay date")
	case errors.Is(err, taxconfig.ErrNoBracketsForYear):
		UnprocessableEntity(w, "No tax brackets configured for the fiscal year")
	case errors.Is(err, taxconfig.ErrBracketNotFound):
		UnprocessableEntity(w, "Taxable income falls outside the bracket table")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrMissingBaseSalary),
		errors.Is(err, employee.ErrMissingPayProfile),
		errors.Is(err, employee.ErrInvalidPayFrequency):
		UnprocessableEntity(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
