package wireguard

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPublicKey is returned when a peer is committed without a public key.
	ErrMissingPublicKey = errors.New("missing public key")
	// ErrNoEndpoint is returned when resolving a peer that has no endpoint.
	ErrNoEndpoint = errors.New("no endpoint")
	// ErrNotPeerBlock is returned when a block does not start with a [Peer] header.
	ErrNotPeerBlock = errors.New("not a [Peer] block")
)

// FormatError reports malformed input at the point it was parsed or assigned.
// Field names the attribute or primitive being parsed, Text is the offending input.
type FormatError struct {
	Field string
	Text  string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Text, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Text)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatError(field, text string, err error) *FormatError {
	return &FormatError{Field: field, Text: text, Err: err}
}

// HostResolutionError is returned when a syntactically valid endpoint cannot be resolved.
type HostResolutionError struct {
	Host string
	Err  error
}

func (e *HostResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve host %q: %v", e.Host, e.Err)
}

func (e *HostResolutionError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
