package bridge

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus-qen/a1bridge/internal/a1"
	"github.com/marcus-qen/a1bridge/internal/config"
)

func TestBuildDirectRIC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/A1-P/v2/policytypes", r.URL.Path)
		_, _ = io.WriteString(w, `["type1"]`)
	}))
	defer srv.Close()

	b := NewBuilder(config.Default().HTTP, nil)
	ric, err := b.Build(config.RicConfig{ID: "ric1", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, a1.ProtocolCustom, ric.Config.Protocol)

	ids, err := ric.Client.PolicyTypeIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"type1"}, ids)
}

func TestBuildProxiedRIC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rests/operations/A1-ADAPTER-API:getA1Policy", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"near-rt-ric-url":"http://ric2/A1-P/v2/policytypes","body":null}`, string(body))
		_, _ = io.WriteString(w, `{"output":{"http-status":200,"body":"[\"type9\"]"}}`)
	}))
	defer srv.Close()

	b := NewBuilder(config.Default().HTTP, nil)
	ric, err := b.Build(config.RicConfig{
		ID:      "ric2",
		BaseURL: "http://ric2",
		Adapter: a1.AdapterMediatorCCSDK,
		Controller: &config.ControllerConfig{
			Name:     "sdnc",
			BaseURL:  srv.URL,
			Username: "admin",
			Password: "secret",
		},
	})
	require.NoError(t, err)

	ids, err := ric.Client.PolicyTypeIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"type9"}, ids)
}

func TestBuildAllFailsOnBadRIC(t *testing.T) {
	b := NewBuilder(config.Default().HTTP, nil)

	_, err := b.BuildAll([]config.RicConfig{
		{ID: "ok", BaseURL: "http://ric"},
		{ID: "bad", BaseURL: "http://ric", Adapter: "nope"},
	})
	assert.ErrorIs(t, err, a1.ErrUnknownAdapter)
}

func TestTargets(t *testing.T) {
	b := NewBuilder(config.Default().HTTP, nil)
	rics, err := b.BuildAll([]config.RicConfig{
		{ID: "ric1", BaseURL: "http://ric1"},
		{ID: "ric2", BaseURL: "http://ric2"},
	})
	require.NoError(t, err)

	targets := Targets(rics)
	require.Len(t, targets, 2)
	assert.Equal(t, "ric1", targets[0].ID)
	assert.Equal(t, "ric2", targets[1].ID)
}
