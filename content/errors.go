package content

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind is the classified category of a content store failure.
type Kind string

const (
	ConnectionFailed Kind = "CONNECTION_FAILED"
	Unauthorized     Kind = "UNAUTHORIZED"
	NotFound         Kind = "NOT_FOUND"
	ValidationError  Kind = "VALIDATION_ERROR"
	UnknownError     Kind = "UNKNOWN_ERROR"
)

// Human-readable messages for each kind.
const (
	msgConnection   = "Unable to connect to the content service. Please check your connection."
	msgUnauthorized = "You are not authorized to perform this action. Please sign in again."
	msgNotFound     = "The requested content was not found."
	msgValidation   = "The submitted data is invalid. Please check the fields and try again."
	msgUnknown      = "An unexpected error occurred."
)

// Store codes the classifier recognises.
const (
	CodeNoRows          = "PGRST116"
	CodeJWTExpired      = "PGRST301"
	CodeJWTInvalid      = "PGRST302"
	CodeUnknownColumn   = "42703"
	CodeSchemaColumn    = "PGRST204"
	CodeUniqueViolation = "23505"
	CodeNotNull         = "23502"
	CodeCheckViolation  = "23514"
)

// Error is a classified failure. Error() returns only the human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Kind, so errors.Is(err, &Error{Kind: NotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of err, or UnknownError when err is not classified.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return UnknownError
}

// RawError is the error shape returned by the hosted store (PostgREST style).
// Backends translate their native failures into it.
type RawError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Status  int    `json:"-"`
}

func (e *RawError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Message != "":
		return e.Message
	case e.Status != 0:
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	default:
		return e.Code
	}
}

// Classifier maps a raw failure onto the error taxonomy.
type Classifier interface {
	Classify(err error) *Error
}

// RuleClassifier is the default Classifier. It inspects RawError codes and
// statuses, network errors and message text.
type RuleClassifier struct{}

var connectionPatterns = []string{
	"failed to fetch",
	"fetch failed",
	"networkerror",
	"network request failed",
	"network error",
	"connection refused",
	"connection reset",
	"no such host",
}

// Classify returns nil for a nil error.
func (RuleClassifier) Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	var code, message string
	var status int
	var raw *RawError
	if errors.As(err, &raw) {
		code, message, status = raw.Code, raw.Message, raw.Status
	} else {
		message = err.Error()
	}
	lower := strings.ToLower(message)

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || containsAny(lower, connectionPatterns) {
		return &Error{Kind: ConnectionFailed, Message: msgConnection, Err: err}
	}
	if status == http.StatusUnauthorized || code == CodeJWTExpired || code == CodeJWTInvalid ||
		containsAny(lower, []string{"jwt", "token", "authentication required"}) {
		return &Error{Kind: Unauthorized, Message: msgUnauthorized, Err: err}
	}
	if code == CodeNoRows || strings.Contains(lower, "not found") {
		return &Error{Kind: NotFound, Message: msgNotFound, Err: err}
	}
	if strings.Contains(lower, "missing required fields") {
		return &Error{Kind: ValidationError, Message: message, Err: err}
	}
	if strings.HasPrefix(code, "23") || code == CodeUnknownColumn || code == CodeSchemaColumn ||
		strings.Contains(lower, "violates") {
		return &Error{Kind: ValidationError, Message: msgValidation, Err: err}
	}
	if message == "" {
		message = msgUnknown
	}
	return &Error{Kind: UnknownError, Message: message, Err: err}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// missingFields builds the pre-flight validation error naming the absent fields.
func missingFields(fields []string) *Error {
	return &Error{
		Kind:    ValidationError,
		Message: "Missing required fields: " + strings.Join(fields, ", "),
	}
}
