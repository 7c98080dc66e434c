package api

import "fmt"

// ErrAPI is a non-success backend response. Message carries the structured
// "error" or "message" field when the backend provided one, else a generic
// status description.
type ErrAPI struct {
	Status  int
	Message string
}

func (e *ErrAPI) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// ErrInvalidPayload indicates a response body that failed schema validation
// or could not be decoded into the expected shape.
type ErrInvalidPayload struct {
	Endpoint string
	Err      error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid payload from %s: %v", e.Endpoint, e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }
