package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitify/internal/logger"
)

// Kind classifies an error for callers that need to react to it, e.g. the HTTP layer
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a missing or malformed input. No store access was attempted.
	KindValidation
	// KindNotFoundOrForbidden covers missing, foreign and archived habits alike.
	KindNotFoundOrForbidden
	// KindTransientStore is a database failure; the transaction was rolled back.
	KindTransientStore
	// KindRolloverFailed means a rollover batch was rolled back as a whole.
	KindRolloverFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFoundOrForbidden:
		return "not_found_or_forbidden"
	case KindTransientStore:
		return "transient_store"
	case KindRolloverFailed:
		return "rollover_failed"
	default:
		return "unknown"
	}
}

// Error carries a kind, a message safe to show to the user and an optional cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFoundOrForbidden) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is checks
var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrNotFoundOrForbidden = &Error{Kind: KindNotFoundOrForbidden}
	ErrTransientStore      = &Error{Kind: KindTransientStore}
	ErrRolloverFailed      = &Error{Kind: KindRolloverFailed}
)

// Validation returns a validation error with the given message
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundOrForbidden returns an ownership error with the given message
func NotFoundOrForbidden(message string) error {
	return &Error{Kind: KindNotFoundOrForbidden, Message: message}
}

// Transient wraps a store failure
func Transient(message string, err error) error {
	return &Error{Kind: KindTransientStore, Message: message, Err: err}
}

// RolloverFailed wraps the cause of an aborted rollover for the given date
func RolloverFailed(date string, err error) error {
	return &Error{Kind: KindRolloverFailed, Message: fmt.Sprintf("rollover for %s failed", date), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-visible message of err. Unknown errors get a generic text
// so driver details never reach the client.
func Message(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "An error occurred"
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
