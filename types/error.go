package types

import "fmt"

// ErrorCode represents a unified error code across the negotiation core.
type ErrorCode string

// Negotiation error codes.
const (
	// ErrPrecondition marks a caller/wiring bug: wrong stage dispatched,
	// a divergence constructed without objections, and similar.
	ErrPrecondition ErrorCode = "PRECONDITION_VIOLATION"
	// ErrUnknownRole marks a reference to a role name that was never
	// registered with the collaborator set.
	ErrUnknownRole ErrorCode = "UNKNOWN_ROLE"
	// ErrCommitBeforeInvoke marks a commit issued before any exchange was
	// staged for that role.
	ErrCommitBeforeInvoke ErrorCode = "COMMIT_BEFORE_INVOKE"
	// ErrAgentFailure marks a collaborator that could not produce a
	// propose/declare result. Not retried by the core.
	ErrAgentFailure ErrorCode = "AGENT_FAILURE"
	// ErrInputInvalid marks malformed or out-of-range human feedback input.
	// Recoverable: the feedback loop re-prompts instead of aborting.
	ErrInputInvalid ErrorCode = "INPUT_INVALID"
	// ErrTransitionCap marks non-convergence: the orchestrator exceeded its
	// maximum number of stage transitions. Distinct from a normal End.
	ErrTransitionCap ErrorCode = "TRANSITION_CAP_EXCEEDED"
)

// Error is a structured error carrying the code, the stage and role that
// were active when it occurred, and the underlying cause.
type Error struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Stage       string    `json:"stage,omitempty"`
	Role        string    `json:"role,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Cause       error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Stage != "" {
		msg += fmt.Sprintf(" (stage=%s", e.Stage)
		if e.Role != "" {
			msg += fmt.Sprintf(" role=%s", e.Role)
		}
		msg += ")"
	} else if e.Role != "" {
		msg += fmt.Sprintf(" (role=%s)", e.Role)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:        code,
		Message:     message,
		Recoverable: code == ErrInputInvalid,
	}
}

// WithStage records the stage that was active when the error occurred.
func (e *Error) WithStage(stage string) *Error {
	e.Stage = stage
	return e
}

// WithRole records the role that was active when the error occurred.
func (e *Error) WithRole(role string) *Error {
	e.Role = role
	return e
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// IsRecoverable reports whether the error can be handled by re-prompting
// instead of aborting the run.
func IsRecoverable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
