package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrMissingBaseSalary   = errors.New("employee has no base salary configured")
	ErrMissingPayProfile   = errors.New("employee pay profile is incomplete")
	ErrInvalidPayFrequency = errors.New("invalid pay frequency")
)
