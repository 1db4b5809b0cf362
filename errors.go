// errors.go
package lwsrecipe

import (
	"errors"
	"fmt"

	"github.com/arc-language/lwsrecipe/pkg/options"
	"github.com/arc-language/lwsrecipe/pkg/platform"
	"github.com/arc-language/lwsrecipe/pkg/source"
)

var (
	// ErrInvalidConfiguration indicates an option value or combination the recipe cannot build
	ErrInvalidConfiguration = options.ErrInvalidConfiguration

	// ErrUnknownOption indicates an option name outside the schema
	ErrUnknownOption = options.ErrUnknownOption

	// ErrOptionNotOffered indicates an option removed for the target platform
	ErrOptionNotOffered = options.ErrOptionNotOffered

	// ErrHashMismatch indicates the source archive failed checksum verification
	ErrHashMismatch = source.ErrHashMismatch

	// ErrToolNotFound indicates the build tool is not installed
	ErrToolNotFound = platform.ErrToolNotFound

	// ErrStage indicates a step was requested before the step it depends on
	ErrStage = errors.New("pipeline stage not reached")

	// ErrPackageNotFound indicates there is no packaged library to inspect
	ErrPackageNotFound = errors.New("package not found")
)

// Error wraps an error with additional context
type Error struct {
	Op     string // Operation that failed
	Option string // Option name if applicable
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Option, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	e := &Error{Op: op, Err: err}
	var ae *options.AssignmentError
	if errors.As(err, &ae) {
		e.Option = ae.Name
	}
	return e
}
