package inference

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubject(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Subject
		wantErr bool
	}{
		{name: "physics", value: "physics", want: SubjectPhysics},
		{name: "math upper case", value: "MATH", want: SubjectMath},
		{name: "mathematics alias", value: " Mathematics ", want: SubjectMath},
		{name: "unknown", value: "chemistry", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubject(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstruction(t *testing.T) {
	physics := Instruction(SubjectPhysics)
	math := Instruction(SubjectMath)

	assert.Contains(t, physics, "expert Physics tutor")
	assert.Contains(t, physics, "Newton's second law")
	assert.Contains(t, math, "expert Mathematics tutor")
	assert.Contains(t, math, "quadratic formula")
	assert.NotEqual(t, physics, math)
	assert.Contains(t, math, `\boxed{...}`)
}

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "empty query", err: ErrEmptyQuery, want: "Please enter a question first."},
		{name: "wrapped empty response", err: fmt.Errorf("solve > %w", ErrEmptyResponse), want: "The tutor returned an empty answer. Please try again."},
		{name: "api error", err: &APIError{StatusCode: 503}, want: "The tutor service returned an error (HTTP 503). Please try again."},
		{name: "rate limited", err: &APIError{StatusCode: 429}, want: "The tutor is busy right now (HTTP 429). Please wait a moment and try again."},
		{name: "transport", err: &TransportError{Err: errors.New("dial tcp: connection refused")}, want: "Could not reach the tutor service. Check your connection and try again."},
		{name: "other", err: errors.New("boom"), want: "Something went wrong: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayMessage(tt.err))
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("i/o timeout")
	err := &TransportError{Err: cause}
	assert.ErrorIs(t, err, cause)
}
