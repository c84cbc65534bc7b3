package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGetReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/A1-P/v2/policytypes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		_, _ = w.Write([]byte(`["type1"]`))
	}))
	defer srv.Close()

	client := NewFactory(Config{Timeout: 5 * time.Second}).New(srv.URL)
	body, err := client.Get(context.Background(), "/A1-P/v2/policytypes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if body != `["type1"]` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestClientPutSendsBody(t *testing.T) {
	var gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewFactory(Config{}).New("")
	if _, err := client.Put(context.Background(), srv.URL+"/p", `{"scope":{"ueId":"ue1"}}`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if gotBody != `{"scope":{"ueId":"ue1"}}` {
		t.Fatalf("body not forwarded verbatim: %q", gotBody)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}
}

func TestClientPostWithAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "username" || pass != "password" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/rests/operations/A1-ADAPTER-API:getA1Policy" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"http-status":200,"body":"OK"}`))
	}))
	defer srv.Close()

	client := NewFactory(Config{}).New(srv.URL + "/rests/operations/")
	body, err := client.PostWithAuthHeader(context.Background(), "/A1-ADAPTER-API:getA1Policy", "{}", "username", "password")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if body != `{"http-status":200,"body":"OK"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestClientNon2xxIsResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such policy"))
	}))
	defer srv.Close()

	client := NewFactory(Config{}).New(srv.URL)
	_, err := client.Delete(context.Background(), "/x")
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %T %v", err, err)
	}
	if respErr.StatusCode != http.StatusNotFound || respErr.ReasonPhrase != "Not Found" {
		t.Fatalf("unexpected status: %+v", respErr)
	}
	if respErr.Body != "no such policy" {
		t.Fatalf("unexpected body %q", respErr.Body)
	}
	if code, ok := StatusCode(err); !ok || code != http.StatusNotFound {
		t.Fatalf("StatusCode() = %d, %v", code, ok)
	}
}

func TestClientTimeoutIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewFactory(Config{Timeout: 50 * time.Millisecond}).New(srv.URL)
	_, err := client.Get(context.Background(), "/slow")
	var transportErr *Error
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport Error, got %T %v", err, err)
	}
	if transportErr.Code != "timeout" {
		t.Fatalf("expected timeout code, got %q", transportErr.Code)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewFactory(Config{Timeout: time.Second}).New(url)
	_, err := client.Get(context.Background(), "/")
	var transportErr *Error
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport Error, got %T %v", err, err)
	}
	if transportErr.Code != "unreachable" {
		t.Fatalf("expected unreachable code, got %q", transportErr.Code)
	}
}

func TestResponseErrorMessage(t *testing.T) {
	err := NewResponseError(http.StatusBadRequest, "NOK")
	if err.Error() != "400 Bad Request: NOK" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if NewResponseError(http.StatusNotFound, "").Error() != "404 Not Found" {
		t.Fatal("expected message without body")
	}
}
