package core

import "errors"

// Kind is the stable discriminant of a domain error. UIs dispatch on it.
type Kind string

const (
	KindInvalidCredentials  Kind = "INVALID_CREDENTIALS"
	KindDuplicateEmail      Kind = "DUPLICATE_EMAIL"
	KindNotFound            Kind = "NOT_FOUND"
	KindBudgetPercentageSum Kind = "BUDGET_PERCENTAGE_SUM"
	KindGoalLimitReached    Kind = "GOAL_LIMIT_REACHED"
	KindInvalidDocument     Kind = "INVALID_DOCUMENT"
	KindStorageFailure      Kind = "STORAGE_FAILURE"
	KindInvalidInput        Kind = "INVALID_INPUT"
)

// Error is a domain error carrying a Kind, a human-readable message and an
// optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality, so errors.Is(err, ErrNotFound) matches every
// NOT_FOUND error regardless of its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Wrap returns a copy of sentinel carrying cause.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: cause}
}

// WithMessage returns a copy of sentinel with a more specific message.
func WithMessage(sentinel *Error, message string) *Error {
	return &Error{Kind: sentinel.Kind, Message: message, Err: sentinel.Err}
}

// KindOf extracts the Kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var (
	ErrInvalidCredentials  = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrDuplicateEmail      = &Error{Kind: KindDuplicateEmail, Message: "user already exists"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrBudgetPercentageSum = &Error{Kind: KindBudgetPercentageSum, Message: "percentages must add up to 100%"}
	ErrGoalLimitReached    = &Error{Kind: KindGoalLimitReached, Message: "you can only add up to 5 savings goals"}
	ErrInvalidDocument     = &Error{Kind: KindInvalidDocument, Message: "invalid data format"}
	ErrStorageFailure      = &Error{Kind: KindStorageFailure, Message: "storage failure"}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Message: "invalid input"}
)
