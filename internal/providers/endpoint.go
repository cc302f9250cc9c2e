package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Endpoint rates lines with a plain HTTP service: it POSTs {"code": line}
// and reads {"comment": "..."} back.
type Endpoint struct {
	url    string
	client *http.Client
}

// NewEndpoint creates an Endpoint rater for url.
func NewEndpoint(url string) (*Endpoint, error) {
	if url == "" {
		return nil, fmt.Errorf("rater URL is not set (LLM_API or rater.url)")
	}
	return &Endpoint{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (e *Endpoint) Name() string { return "endpoint" }

type endpointRequest struct {
	Code string `json:"code"`
}

type endpointResponse struct {
	Comment *string `json:"comment"`
}

func (e *Endpoint) RateLine(ctx context.Context, code string) (string, error) {
	payload, err := json.Marshal(endpointRequest{Code: code})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var comment string
	err = retryWithBackoff(ctx, 2, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := e.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if err := classifyStatus(httpResp.StatusCode, respBody); err != nil {
			return err
		}

		var result endpointResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		if result.Comment == nil {
			return fmt.Errorf("response has no comment field")
		}
		comment = strings.TrimSpace(*result.Comment)
		return nil
	})
	return comment, err
}
