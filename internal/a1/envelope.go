package a1

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Wire names follow the CCSDK adapter's lower-case-with-dashes convention.
type adapterRequest struct {
	NearRtRicURL string  `json:"near-rt-ric-url"`
	Body         *string `json:"body"`
}

type adapterOutputWire struct {
	HTTPStatus *int    `json:"http-status"`
	Body       *string `json:"body"`
}

// AdapterOutput is a decoded response envelope: what the RIC answered to the
// intermediary.
type AdapterOutput struct {
	HTTPStatus int
	Body       string
}

// EncodeAdapterRequest renders the envelope for one RPC: the URL the RIC
// would have been called with directly, and the body (null when nil).
func EncodeAdapterRequest(ricURL string, body *string) (string, error) {
	return encodeJSON(adapterRequest{NearRtRicURL: ricURL, Body: body})
}

// EncodeAdapterOutput renders a response envelope. The adapters only decode;
// this is the intermediary's side of the contract.
func EncodeAdapterOutput(status int, body *string) (string, error) {
	return encodeJSON(adapterOutputWire{HTTPStatus: &status, Body: body})
}

// DecodeAdapterOutput parses a response envelope. A RESTCONF "output"
// wrapper is accepted as well as the bare envelope. A missing or null body
// decodes as "".
func DecodeAdapterOutput(payload string) (AdapterOutput, error) {
	raw := []byte(strings.TrimSpace(payload))
	if len(raw) == 0 {
		return AdapterOutput{}, &EnvelopeError{Detail: "empty response"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return AdapterOutput{}, &EnvelopeError{Detail: err.Error(), Err: err}
	}
	if _, ok := fields["http-status"]; !ok {
		if inner, ok := fields["output"]; ok {
			raw = inner
		}
	}

	var wire adapterOutputWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return AdapterOutput{}, &EnvelopeError{Detail: err.Error(), Err: err}
	}
	if wire.HTTPStatus == nil {
		return AdapterOutput{}, &EnvelopeError{Detail: "missing http-status"}
	}
	if *wire.HTTPStatus < 100 || *wire.HTTPStatus > 599 {
		return AdapterOutput{}, &EnvelopeError{Detail: "http-status out of range"}
	}

	out := AdapterOutput{HTTPStatus: *wire.HTTPStatus}
	if wire.Body != nil {
		out.Body = *wire.Body
	}
	return out, nil
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
