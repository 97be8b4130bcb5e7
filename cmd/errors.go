package cmd

import (
	"fmt"

	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// FatalIOError aborts a run: an input could not be read or the report could not be written.
type FatalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *FatalIOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the fatal I/O sentinel and the underlying cause.
func (e *FatalIOError) Unwrap() []error {
	return []error{sharedErrors.ErrFatalIO, e.Err}
}
