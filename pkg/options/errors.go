package options

import "errors"

var (
	// ErrInvalidConfiguration indicates an option value or combination the recipe cannot build
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownOption indicates an option name that is not part of the schema at all
	ErrUnknownOption = errors.New("unknown option")

	// ErrOptionNotOffered indicates an option that exists but was removed for the target platform
	ErrOptionNotOffered = errors.New("option not offered on this platform")
)

// AssignmentError reports which option a failed assignment named
type AssignmentError struct {
	Name string
	Err  error
}

func (e *AssignmentError) Error() string {
	return e.Err.Error()
}

func (e *AssignmentError) Unwrap() error {
	return e.Err
}
