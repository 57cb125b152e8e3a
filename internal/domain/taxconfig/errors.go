package taxconfig

import "errors"

var (
	ErrConfigurationNotFound = errors.New("no tax configuration effective on pay date")
	ErrBracketNotFound       = errors.New("no tax bracket matches taxable income")
	ErrNoBracketsForYear     = errors.New("no tax brackets configured for fiscal year")
)
