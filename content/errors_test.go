package content

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleClassifier(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		message string
	}{
		{
			name: "status 401",
			err:  &RawError{Status: 401, Message: "Invalid API key"},
			kind: Unauthorized,
		},
		{
			name: "jwt expired",
			err:  &RawError{Code: CodeJWTExpired, Message: "JWT expired"},
			kind: Unauthorized,
		},
		{
			name: "authentication required",
			err:  errors.New("Authentication required"),
			kind: Unauthorized,
		},
		{
			name: "integrity constraint",
			err:  &RawError{Code: "23503", Message: "insert or update on table violates foreign key constraint"},
			kind: ValidationError,
		},
		{
			name:    "unique violation message is replaced",
			err:     &RawError{Code: CodeUniqueViolation, Message: "duplicate key value violates unique constraint"},
			kind:    ValidationError,
			message: msgValidation,
		},
		{
			name: "unknown column",
			err:  &RawError{Code: CodeUnknownColumn, Message: `column "colour" does not exist`},
			kind: ValidationError,
		},
		{
			name:    "missing fields passes through",
			err:     errors.New("Missing required fields: title, slug"),
			kind:    ValidationError,
			message: "Missing required fields: title, slug",
		},
		{
			name: "failed to fetch",
			err:  errors.New("Failed to fetch"),
			kind: ConnectionFailed,
		},
		{
			name: "dial error",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			kind: ConnectionFailed,
		},
		{
			name: "deadline",
			err:  fmt.Errorf("get posts: %w", context.DeadlineExceeded),
			kind: ConnectionFailed,
		},
		{
			name: "no rows code",
			err:  &RawError{Code: CodeNoRows, Message: "JSON object requested, multiple (or no) rows returned"},
			kind: NotFound,
		},
		{
			name: "not found message",
			err:  errors.New("resource not found"),
			kind: NotFound,
		},
		{
			name:    "fallback keeps raw message",
			err:     &RawError{Code: "42P01", Message: `relation "blog_posts" does not exist`},
			kind:    UnknownError,
			message: `relation "blog_posts" does not exist`,
		},
		{
			name:    "fallback without message",
			err:     &RawError{Code: "XX000"},
			kind:    UnknownError,
			message: msgUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleClassifier{}.Classify(tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			if tt.message != "" {
				assert.Equal(t, tt.message, got.Message)
			}
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, RuleClassifier{}.Classify(nil))
}

func TestClassifiedErrorsPassThrough(t *testing.T) {
	ce := &Error{Kind: NotFound, Message: "gone"}
	assert.Same(t, ce, RuleClassifier{}.Classify(fmt.Errorf("wrapped: %w", ce)))
	assert.Equal(t, NotFound, KindOf(fmt.Errorf("wrapped: %w", ce)))
	assert.Equal(t, UnknownError, KindOf(errors.New("plain")))
}
