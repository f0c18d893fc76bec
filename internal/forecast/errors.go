package forecast

import "errors"

var (
	// ErrInvalidInput is returned for malformed or out-of-range arguments.
	ErrInvalidInput = errors.New("forecast: invalid input")
	// ErrInsufficientData is returned when the requested strategy needs history that was not supplied.
	ErrInsufficientData = errors.New("forecast: insufficient data")
	// ErrComputationFailure marks a degenerate model fit. It never leaves Forecast.
	ErrComputationFailure = errors.New("forecast: computation failure")
)
