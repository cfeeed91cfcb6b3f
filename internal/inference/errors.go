package inference

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyQuery is returned before any request is sent
	ErrEmptyQuery = errors.New("query is empty")
	// ErrEmptyResponse is returned when the payload has no candidate text
	ErrEmptyResponse = errors.New("empty response from the model")
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps a network level failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DisplayMessage converts a Solve error into the single message shown to a user.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	var transportErr *TransportError
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return "Please enter a question first."
	case errors.Is(err, ErrEmptyResponse):
		return "The tutor returned an empty answer. Please try again."
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return "The tutor is busy right now (HTTP 429). Please wait a moment and try again."
		}
		return fmt.Sprintf("The tutor service returned an error (HTTP %d). Please try again.", apiErr.StatusCode)
	case errors.As(err, &transportErr):
		return "Could not reach the tutor service. Check your connection and try again."
	}
	return "Something went wrong: " + err.Error()
}
