package a1

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type restCall struct {
	Method   string
	URI      string
	Body     string
	Username string
	Password string
}

// fakeRest records every call and answers through respond.
type fakeRest struct {
	mu      sync.Mutex
	calls   []restCall
	respond func(ctx context.Context, c restCall) (string, error)
}

func (f *fakeRest) do(ctx context.Context, c restCall) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.respond == nil {
		return "", nil
	}
	return f.respond(ctx, c)
}

func (f *fakeRest) Get(ctx context.Context, uri string) (string, error) {
	return f.do(ctx, restCall{Method: "GET", URI: uri})
}

func (f *fakeRest) Put(ctx context.Context, uri, body string) (string, error) {
	return f.do(ctx, restCall{Method: "PUT", URI: uri, Body: body})
}

func (f *fakeRest) Delete(ctx context.Context, uri string) (string, error) {
	return f.do(ctx, restCall{Method: "DELETE", URI: uri})
}

func (f *fakeRest) PostWithAuthHeader(ctx context.Context, uri, body, username, password string) (string, error) {
	return f.do(ctx, restCall{Method: "POST", URI: uri, Body: body, Username: username, Password: password})
}

func (f *fakeRest) Calls() []restCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]restCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeRest) URIs(method string) []string {
	var out []string
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c.URI)
		}
	}
	return out
}

// envelopeURLs decodes the near-rt-ric-url of every POST sent to rpcPath.
func (f *fakeRest) envelopeURLs(t *testing.T, rpcPath string) []string {
	t.Helper()
	var out []string
	for _, c := range f.Calls() {
		if c.Method != "POST" || c.URI != rpcPath {
			continue
		}
		out = append(out, decodeRequest(t, c.Body).NearRtRicURL)
	}
	return out
}

func decodeRequest(t *testing.T, body string) adapterRequest {
	t.Helper()
	var req adapterRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func okEnvelope(t *testing.T, body string) string {
	t.Helper()
	out, err := EncodeAdapterOutput(200, &body)
	require.NoError(t, err)
	return out
}

func testPolicy(policyID, policyJSON, typeID string) Policy {
	return Policy{
		ID:                    policyID,
		Type:                  PolicyType{ID: typeID, Schema: "schema"},
		JSON:                  policyJSON,
		OwnerServiceID:        "service",
		StatusNotificationURI: "https://test.com",
	}
}
