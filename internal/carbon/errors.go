package carbon

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	// ErrValidation marks input that is missing or outside its domain.
	ErrValidation = constError("validation failed")

	// ErrNotFound marks an unknown or foreign profile identifier.
	ErrNotFound = constError("not found")

	// ErrForbidden marks an operation that is never allowed, such as deleting a built-in profile.
	ErrForbidden = constError("forbidden")
)

// ValidationError reports a single invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an unresolvable machine or material identifier.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ForbiddenError reports an operation rejected regardless of caller.
type ForbiddenError struct {
	Kind   string
	ID     string
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.ID, e.Reason)
}

// Is reports whether target is ErrForbidden.
func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// Profile kinds used in error values.
const (
	KindMachine  = "machine"
	KindMaterial = "material"
)
