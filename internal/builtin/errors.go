package builtin

import (
	"errors"
	"fmt"
)

// ErrFetch matches every FetchError.
var ErrFetch = errors.New("built-in content unavailable")

// FetchError reports a manifest or lesson file that could not be fetched.
type FetchError struct {
	Name string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrFetch, e.Name, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
