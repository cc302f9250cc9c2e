package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEndpoint_RateLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		var req endpointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Code != "password = input()" {
			t.Errorf("code = %q", req.Code)
		}
		w.Write([]byte(`{"comment":"  Never read passwords in plain text.  "}`))
	}))
	defer server.Close()

	e, err := NewEndpoint(server.URL)
	if err != nil {
		t.Fatalf("NewEndpoint error: %v", err)
	}
	got, err := e.RateLine(context.Background(), "password = input()")
	if err != nil {
		t.Fatalf("RateLine error: %v", err)
	}
	if got != "Never read passwords in plain text." {
		t.Errorf("comment = %q", got)
	}
}

func TestEndpoint_EmptyComment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"comment":"   "}`))
	}))
	defer server.Close()

	e, _ := NewEndpoint(server.URL)
	got, err := e.RateLine(context.Background(), "x")
	if err != nil {
		t.Fatalf("RateLine error: %v", err)
	}
	if got != "" {
		t.Errorf("comment = %q, want empty", got)
	}
}

func TestEndpoint_MissingComment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score":3}`))
	}))
	defer server.Close()

	e, _ := NewEndpoint(server.URL)
	if _, err := e.RateLine(context.Background(), "x"); err == nil {
		t.Error("Expected error when comment field is missing")
	}
}

func TestEndpoint_RateLimitedThenOK(t *testing.T) {
	fastBackoff(t)
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(429)
			return
		}
		w.Write([]byte(`{"comment":"ok"}`))
	}))
	defer server.Close()

	e, _ := NewEndpoint(server.URL)
	got, err := e.RateLine(context.Background(), "x")
	if err != nil {
		t.Fatalf("RateLine error: %v", err)
	}
	if got != "ok" || attempts != 2 {
		t.Errorf("comment = %q after %d attempts", got, attempts)
	}
}

func TestNewEndpoint_NoURL(t *testing.T) {
	if _, err := NewEndpoint(""); err == nil {
		t.Error("Expected error for empty URL")
	}
}
