package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dshills/quill/internal/config"
)

// fastBackoff shrinks retry delays for the duration of a test.
func fastBackoff(t *testing.T) {
	t.Helper()
	orig := backoffBase
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = orig })
}

func TestNew(t *testing.T) {
	r, err := New(config.RaterConfig{Provider: "endpoint", URL: "http://localhost:8006/rate_code"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.Name() != "endpoint" {
		t.Errorf("Name() = %q", r.Name())
	}

	r, err = New(config.RaterConfig{Provider: "lmstudio"})
	if err != nil {
		t.Fatalf("New(lmstudio) error: %v", err)
	}
	if r.Name() != "ollama" {
		t.Errorf("Name() = %q, want ollama", r.Name())
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(config.RaterConfig{Provider: "unknown"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestNew_Limited(t *testing.T) {
	r, err := New(config.RaterConfig{Provider: "endpoint", URL: "http://x", RatePerSecond: 5, Burst: 2})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, ok := r.(*Limited); !ok {
		t.Errorf("rater type = %T, want *Limited", r)
	}
}

func TestIsAuthError(t *testing.T) {
	if IsAuthError(nil) {
		t.Error("nil should not be auth error")
	}
	if IsAuthError(&rateLimitError{}) {
		t.Error("rateLimitError should not be auth error")
	}
	if !IsAuthError(&authError{message: "test"}) {
		t.Error("authError should be auth error")
	}
	wrapped := errors.Join(errors.New("rating a.go:3"), &authError{message: "x"})
	if !IsAuthError(wrapped) {
		t.Error("wrapped authError should be auth error")
	}
}

func TestIsRetryable(t *testing.T) {
	if isRetryable(&authError{message: "test"}) {
		t.Error("authError should not be retryable")
	}
	if !isRetryable(&rateLimitError{}) {
		t.Error("rateLimitError should be retryable")
	}
	if !isRetryable(&serverError{statusCode: 500}) {
		t.Error("serverError should be retryable")
	}
	if isRetryable(&apiError{statusCode: 400}) {
		t.Error("apiError should not be retryable")
	}
	if isRetryable(context.Canceled) {
		t.Error("context.Canceled should not be retryable")
	}
}

func TestClassifyStatus(t *testing.T) {
	if err := classifyStatus(200, nil); err != nil {
		t.Errorf("200 = %v", err)
	}
	if err := classifyStatus(403, []byte("no")); !IsAuthError(err) {
		t.Errorf("403 = %v", err)
	}
	if err := classifyStatus(502, []byte("gw")); err.Error() != "server error: gw" {
		t.Errorf("502 = %v", err)
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryWithBackoff(ctx, 3, func() error {
		return &rateLimitError{}
	})
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestRetryWithBackoff_NonRetryable(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), 3, func() error {
		attempts++
		return &authError{message: "bad"}
	})
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for auth error, got %d", attempts)
	}
	if !IsAuthError(err) {
		t.Errorf("Expected auth error, got: %v", err)
	}
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	fastBackoff(t)
	attempts := 0
	err := retryWithBackoff(context.Background(), 2, func() error {
		attempts++
		return &serverError{statusCode: 500, body: "down"}
	})
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if err == nil || err.Error() != "server error: down" {
		t.Errorf("err = %v", err)
	}
}

func TestNormalizeComment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"NONE", ""},
		{" none. ", ""},
		{"`NONE`", ""},
		{"", ""},
		{" Missing nil check. ", "Missing nil check."},
		{"None of the callers check this error.", "None of the callers check this error."},
	}
	for _, tt := range tests {
		if got := normalizeComment(tt.in); got != tt.want {
			t.Errorf("normalizeComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
