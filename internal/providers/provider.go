package providers

import (
	"context"
	"fmt"

	"github.com/dshills/quill/internal/config"
)

// Rater comments on a single line of code. An empty comment with a nil error
// means the rater had nothing to say about the line.
type Rater interface {
	RateLine(ctx context.Context, code string) (string, error)
	Name() string
}

// New creates a rater from configuration. A positive RatePerSecond wraps the
// result in a Limited rater.
func New(cfg config.RaterConfig) (Rater, error) {
	var (
		r   Rater
		err error
	)
	switch cfg.Provider {
	case "", "endpoint":
		r, err = NewEndpoint(cfg.URL)
	case "anthropic":
		r, err = NewAnthropic(cfg.Model)
	case "openai":
		r, err = NewOpenAI(cfg.Model)
	case "ollama", "lmstudio":
		r, err = NewOllama(cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if cfg.RatePerSecond > 0 {
		r = NewLimited(r, cfg.RatePerSecond, cfg.Burst)
	}
	return r, nil
}
