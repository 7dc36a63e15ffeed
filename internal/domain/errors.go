package domain

import "errors"

// Error kinds for a conversion run. Every kind aborts the whole run; callers
// classify with errors.Is.
var (
	ErrInputFormat       = errors.New("input format error")
	ErrEmptyInput        = errors.New("empty input")
	ErrFieldParse        = errors.New("field parse error")
	ErrIO                = errors.New("i/o error")
	ErrSerialization     = errors.New("serialization error")
	ErrPeriodSpansMonths = errors.New("statement period spans more than one month")
	ErrConfig            = errors.New("configuration error")
)
