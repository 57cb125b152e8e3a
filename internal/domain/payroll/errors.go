package payroll

import "errors"

var (
	ErrRunNotFound          = errors.New("payroll run not found")
	ErrRunNumberExists      = errors.New("run number already exists for this tenant")
	ErrInvalidTransition    = errors.New("invalid payroll run status transition")
	ErrConcurrencyConflict  = errors.New("payroll run was modified concurrently, re-read and retry")
	ErrNoEmployeesProcessed = errors.New("no employee could be calculated, run aborted")
	ErrEmptyRoster          = errors.New("no active employees in scope for this run")
	ErrCannotDeleteNonDraft = errors.New("only draft runs can be deleted")
	ErrSourceRecordClaimed  = errors.New("source record already consumed by another run")
	ErrDetailNotFound       = errors.New("payroll detail not found")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
)
