// Package error defines domain-specific errors for the Savings Tracker application.
package error

import "errors"

// Goal domain errors.
var (
	// ErrGoalNotFound is returned when a goal is absent, not owned by the
	// caller, archived, or soft-deleted. The cases are deliberately collapsed
	// so callers cannot probe for the existence of other users' goals.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrGoalNameRequired is returned when a goal is created or renamed without a name.
	ErrGoalNameRequired = errors.New("goal name is required")

	// ErrInvalidTargetAmount is returned when the target amount is zero or negative.
	ErrInvalidTargetAmount = errors.New("invalid target amount")

	// ErrGoalArchived is returned when an operation requires a non-archived goal.
	ErrGoalArchived = errors.New("goal is archived")

	// ErrGoalAlreadyArchived is returned when archiving a goal that is already archived.
	ErrGoalAlreadyArchived = errors.New("goal is already archived")

	// ErrGoalNotPriority is returned when demoting a goal that does not hold priority.
	ErrGoalNotPriority = errors.New("goal does not hold priority")

	// ErrPriorityGoalArchive is returned when archiving a goal that currently
	// holds priority. Priority must be cleared explicitly first.
	ErrPriorityGoalArchive = errors.New("cannot archive a priority goal")
)

// GoalErrorCode defines error codes for goal errors.
// Format: GOL-XXYYYY where XX is category and YYYY is specific error.
type GoalErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeGoalNameRequired    GoalErrorCode = "GOL-010001"
	ErrCodeInvalidTargetAmount GoalErrorCode = "GOL-010002"
	ErrCodeGoalArchived        GoalErrorCode = "GOL-010003"
	ErrCodeGoalAlreadyArchived GoalErrorCode = "GOL-010004"
	ErrCodeMissingGoalFields   GoalErrorCode = "GOL-010005"

	// Conflict errors (02XXXX)
	ErrCodeGoalNotPriority     GoalErrorCode = "GOL-020001"
	ErrCodePriorityGoalArchive GoalErrorCode = "GOL-020002"

	// Lookup errors (03XXXX)
	ErrCodeGoalNotFound GoalErrorCode = "GOL-030001"
)

// GoalError represents a goal error with code and message.
type GoalError struct {
	Code    GoalErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GoalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GoalError) Unwrap() error {
	return e.Err
}

// NewGoalError creates a new GoalError with the given code and message.
func NewGoalError(code GoalErrorCode, message string, err error) *GoalError {
	return &GoalError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
