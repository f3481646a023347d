package types

import "fmt"

// ErrInvalidTarget is returned when the selected path cannot be organized.
type ErrInvalidTarget struct {
	Path   string
	Reason string
	Err    error
}

func (e ErrInvalidTarget) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid target %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid target %q: %s", e.Path, e.Reason)
}

func (e ErrInvalidTarget) Unwrap() error {
	return e.Err
}
