package gen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientGenerate(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  PACING: brisk  "}}]}`))
	})

	c := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, APIKey: "sekrit", Model: "test-model"})
	got, err := c.Generate(context.Background(), "say something")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "PACING: brisk" {
		t.Fatalf("Generate = %q", got)
	}
	if !c.Available() {
		t.Fatal("client should be available after a success")
	}
}

func TestHTTPClientEmptyChoices(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	c := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, Model: "test-model"})
	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestHTTPClientServerError(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, Model: "test-model"})
	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if c.Available() {
		t.Fatal("client should report unavailable after a 5xx")
	}
}

func TestHTTPClientDeadline(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	c := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, Model: "test-model"})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := c.Generate(ctx, "p")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestHTTPClientNoModel(t *testing.T) {
	t.Parallel()
	c := NewHTTPClient(HTTPConfig{})
	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
