package entity

import "errors"

var (
	ErrNavigationTimeout       = errors.New("navigation timeout")
	ErrElementNotFound         = errors.New("element not found")
	ErrRateLimited             = errors.New("rate limited")
	ErrValidationRejected      = errors.New("validation rejected")
	ErrModalUnexpectedlyClosed = errors.New("modal unexpectedly closed")
	ErrStalled                 = errors.New("wizard stalled")
	ErrBudgetExhausted         = errors.New("step budget exhausted")
	ErrUpstreamInvalidResponse = errors.New("upstream invalid response")
	ErrFatalConfig             = errors.New("fatal config")
)
