package geodata

import "fmt"

// Error codes for geodata operations.
const (
	ErrCodeExecFailed  = "EXEC_FAILED"
	ErrCodeEmptyOutput = "EMPTY_OUTPUT"
)

// Error is a geodata failure with a code. Detail carries what the user is
// shown in the notification.
type Error struct {
	Code   string
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code, detail string, cause error) *Error {
	return &Error{Code: code, Detail: detail, Cause: cause}
}
