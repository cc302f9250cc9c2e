package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAI_RateLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or wrong Authorization header")
		}
		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o" {
			t.Errorf("Model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("Messages = %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(openaiResponse{
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: "  Use errors.Is instead of ==.\n"}},
			},
		})
	}))
	defer server.Close()

	o := &OpenAI{
		name:    "openai",
		apiKey:  "test-key",
		model:   "gpt-4o",
		baseURL: server.URL,
		client:  server.Client(),
	}

	got, err := o.RateLine(context.Background(), "if err == io.EOF {")
	if err != nil {
		t.Fatalf("RateLine error: %v", err)
	}
	if got != "Use errors.Is instead of ==." {
		t.Errorf("comment = %q", got)
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "k", baseURL: server.URL, client: server.Client()}
	if _, err := o.RateLine(context.Background(), "x"); err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestOpenAI_BadRequestNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(400)
		w.Write([]byte(`{"error":"bad model"}`))
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "k", baseURL: server.URL, client: server.Client()}
	_, err := o.RateLine(context.Background(), "x")
	if err == nil {
		t.Fatal("Expected error for 400")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if err.Error() != `API error (status 400): {"error":"bad model"}` {
		t.Errorf("error = %q", err.Error())
	}
}

func TestNewOpenAI_BaseURLOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("QUILL_OPENAI_BASE_URL", "http://proxy.local/v1/chat/completions")

	o, err := NewOpenAI("")
	if err != nil {
		t.Fatalf("NewOpenAI error: %v", err)
	}
	if o.baseURL != "http://proxy.local/v1/chat/completions" {
		t.Errorf("baseURL = %q", o.baseURL)
	}
	if o.model != defaultOpenAIModel {
		t.Errorf("model = %q, want default", o.model)
	}
	if o.Name() != "openai" {
		t.Errorf("Name() = %q", o.Name())
	}
}
