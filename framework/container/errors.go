package container

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// InvalidArgumentError is returned by registration calls when a concrete
// value matches no binding kind, or by Call for an unsupported target shape.
type InvalidArgumentError struct {
	ID     string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("container: invalid argument: %s", e.Reason)
	}
	return fmt.Sprintf("container: invalid argument for [%s]: %s", e.ID, e.Reason)
}

// CircularDependencyError carries the cycle, from the first occurrence of
// the repeated identifier back to itself.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Cycle) == 0 {
		return "container: circular dependency detected"
	}
	return fmt.Sprintf("container: circular dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

// NotFoundError means the identifier has no instance, no binding and is not
// autowirable.
type NotFoundError struct {
	ID    string
	cause error
}

func (e *NotFoundError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("container: no entry or constructible type found for [%s]", e.ID)
	}
	return fmt.Sprintf("container: no entry found for [%s]: %v", e.ID, e.cause)
}

func (e *NotFoundError) Cause() error  { return e.cause }
func (e *NotFoundError) Unwrap() error { return e.cause }

// ResolutionError is a failure to produce a value for an identifier that
// does exist: an unfillable parameter or a producer returning an error.
type ResolutionError struct {
	ID     string
	Param  string
	Reason string
	cause  error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "container: failed to resolve [%s]", e.ID)
	if e.Param != "" {
		fmt.Fprintf(&b, ": parameter $%s", e.Param)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *ResolutionError) Cause() error  { return e.cause }
func (e *ResolutionError) Unwrap() error { return e.cause }

// DanglingReferenceError is returned when a weak binding's referent is gone.
type DanglingReferenceError struct {
	ID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("container: weak reference for [%s] no longer points to a live value", e.ID)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCircular reports whether err is, or wraps, a CircularDependencyError.
func IsCircular(err error) bool {
	var cd *CircularDependencyError
	return errors.As(err, &cd)
}

// isTyped reports whether err already belongs to the taxonomy and must
// propagate unchanged.
func isTyped(err error) bool {
	switch err.(type) {
	case *InvalidArgumentError, *CircularDependencyError, *NotFoundError,
		*ResolutionError, *DanglingReferenceError:
		return true
	}
	return false
}

// producerFailed wraps an error returned by user code.
func producerFailed(id string, err error) error {
	if isTyped(err) {
		return err
	}
	return &ResolutionError{ID: id, cause: errors.Wrapf(err, "producer for [%s] returned an error", id)}
}
