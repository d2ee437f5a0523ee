package common

import "errors"

// ErrInvalidInput is returned by every numeric routine when its arguments
// cannot be processed: empty or too-short arrays, non-positive bucket
// counts, mismatched output buffers. Callers should test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
