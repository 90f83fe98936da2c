package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrEngineInvocation  = errors.New("engine invocation failed")
	ErrAlignmentMismatch = errors.New("separator count mismatch after translation")
)
