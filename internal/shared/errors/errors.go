package errors

import "errors"

// Domain errors
var (
	// Site record errors
	ErrEmptyHost    = errors.New("host cannot be empty")
	ErrInvalidStage = errors.New("invalid pipeline stage transition")

	// Per-host pipeline errors, never fatal for the run
	ErrResolutionFailed = errors.New("resolution failed")
	ErrProbeFailed      = errors.New("probe failed")

	// Input errors
	ErrSubnetParse = errors.New("invalid subnet")

	// Run-level errors
	ErrFatalIO       = errors.New("fatal I/O error")
	ErrInvalidConfig = errors.New("invalid configuration")
)
