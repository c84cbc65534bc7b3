package a1

import (
	"errors"
)

var (
	// ErrUnsupportedProtocol is returned when an adapter is constructed for a
	// protocol it does not speak.
	ErrUnsupportedProtocol = errors.New("unsupported southbound protocol")
	// ErrUnknownAdapter is returned by Registry.Create for an unregistered adapter name.
	ErrUnknownAdapter = errors.New("unknown a1 adapter")
	// ErrMissingController is returned when a proxied adapter has no controller to post to.
	ErrMissingController = errors.New("a1 controller not configured")

	// ErrSchemaParse means the policy type document is not valid JSON.
	ErrSchemaParse = errors.New("policy type document is not valid JSON")
	// ErrSchemaShape means neither create_schema nor the document itself is a JSON object.
	ErrSchemaShape = errors.New("policy type document has no object schema")

	// ErrInvalidIDList means a list response is not a JSON array.
	ErrInvalidIDList = errors.New("response is not a JSON array of ids")
)

// SchemaError wraps ErrSchemaParse or ErrSchemaShape for one policy type.
type SchemaError struct {
	PolicyTypeID string
	Err          error
}

func (e *SchemaError) Error() string {
	return "policy type " + e.PolicyTypeID + ": " + e.Err.Error()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// EnvelopeError means the intermediary replied with something that is not an
// adapter output envelope. It is a protocol violation by the intermediary, not
// a failure reported by the RIC.
type EnvelopeError struct {
	RicURL string
	Detail string
	Err    error
}

func (e *EnvelopeError) Error() string {
	msg := "malformed adapter envelope"
	if e.RicURL != "" {
		msg += " for " + e.RicURL
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}
