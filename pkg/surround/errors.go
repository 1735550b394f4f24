package surround

import "fmt"

// CompositionError represents a programmer error in pipeline composition,
// such as a missing validator or a nil stage passed to a setter. It indicates
// that the assembler cannot be built as requested and always fails fast at
// the call that introduced the defect.
type CompositionError struct {
	// Message explains the specific composition error.
	Message string
}

// Error returns the error message for a CompositionError.
func (e CompositionError) Error() string { return e.Message }

// NewCompositionError creates a new CompositionError with a formatted message.
func NewCompositionError(format string, a ...any) error {
	return CompositionError{Message: fmt.Sprintf(format, a...)}
}

// StageError encapsulates a failure raised by a stage during a run while
// preserving the original cause. Stage errors are contained by the assembler:
// they are recorded on the carrier and the log sink instead of propagating to
// the caller.
type StageError struct {
	// Stage is the name of the stage that failed.
	Stage string
	// Cause is the underlying error returned (or recovered) from the stage.
	Cause error
}

// Error returns a formatted message naming the failed stage.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e *StageError) Unwrap() error { return e.Cause }

// FrozenStateError reports an attempt to introduce a new carrier field while
// the carrier is frozen for a filter batch. Existing fields remain writable;
// only undeclared state is rejected.
type FrozenStateError struct {
	// Field is the name of the field the stage tried to introduce.
	Field string
}

// Error returns a formatted message describing the freeze violation.
func (e FrozenStateError) Error() string {
	return fmt.Sprintf("state is frozen: cannot add new field %q", e.Field)
}
