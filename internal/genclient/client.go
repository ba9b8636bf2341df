package genclient

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when a generation service answers with a body
// that cannot be treated as JSON.
var ErrInvalidJSON = errors.New("invalid json from generation service")

// Client is the minimal request/response surface the fetch adapters depend
// on. The transport behind it is opaque: a hosted model API, a queue, or an
// in-process fake all satisfy the contract.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries, e.g.
// a schema violation in an otherwise well-formed response.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err wraps a PermanentError.
func IsPermanent(err error) bool {
	var pErr *PermanentError
	return errors.As(err, &pErr)
}
