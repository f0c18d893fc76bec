package scoring

import "errors"

// ErrInvalidInput reports a malformed or out-of-range scoring argument.
var ErrInvalidInput = errors.New("scoring: invalid input")
