package extract

import (
	"context"
	"log/slog"
)

// Source fetches the raw bodies for one file of one revision.
type Source interface {
	Patch(ctx context.Context, path string) ([]byte, error)
	Content(ctx context.Context, path string) ([]byte, error)
}

// Strategy records which extraction tier produced a Result.
type Strategy string

const (
	StrategyPatch    Strategy = "patch"
	StrategyFullFile Strategy = "full-file"
	StrategyNone     Strategy = "none"
)

// Result is the outcome of extracting one file.
type Result struct {
	Path     string
	Lines    []AddedLine
	Strategy Strategy

	// Errs holds the fetch, decode, and parse errors met along the way.
	// They never make Extract fail.
	Errs []error
}

// Extractor chooses between patch and full-file extraction for a file.
type Extractor struct {
	Source  Source
	Decode  Decoder
	Options Options
	Logger  *slog.Logger
}

// New returns an Extractor that decodes bodies as base64.
func New(src Source, opts Options, logger *slog.Logger) *Extractor {
	return &Extractor{Source: src, Decode: Base64, Options: opts, Logger: logger}
}

// Extract returns the added lines for path. It prefers the patch; when the
// patch cannot be fetched or decoded, or adds no non-blank line, every
// non-blank line of the full file is used instead. If that fails too the
// result is empty with StrategyNone.
func (e *Extractor) Extract(ctx context.Context, path string) Result {
	log := e.logger().With("path", path)
	res := Result{Path: path, Strategy: StrategyNone}

	if patch, err := e.fetch(ctx, path, KindPatch); err != nil {
		res.Errs = append(res.Errs, err)
		log.Warn("patch unavailable, falling back to full file", "err", err)
	} else {
		lines, perrs := AddedLines(patch, e.Options)
		res.Errs = append(res.Errs, perrs...)
		for _, perr := range perrs {
			log.Debug("skipped patch line", "err", perr)
		}
		if len(lines) > 0 {
			res.Lines = lines
			res.Strategy = StrategyPatch
			return res
		}
		log.Info("no added lines in patch, falling back to full file")
	}

	text, err := e.fetch(ctx, path, KindContent)
	if err != nil {
		res.Errs = append(res.Errs, err)
		log.Warn("full file unavailable, nothing to review", "err", err)
		return res
	}
	res.Lines = FileLines(text)
	res.Strategy = StrategyFullFile
	return res
}

func (e *Extractor) fetch(ctx context.Context, path string, kind Kind) (string, error) {
	var (
		body []byte
		err  error
	)
	if kind == KindPatch {
		body, err = e.Source.Patch(ctx, path)
	} else {
		body, err = e.Source.Content(ctx, path)
	}
	if err != nil {
		return "", &FetchError{Path: path, Kind: kind, Err: err}
	}

	decode := e.Decode
	if decode == nil {
		decode = Base64
	}
	text, err := decode(body)
	if err != nil {
		return "", &DecodeError{Path: path, Kind: kind, Err: err}
	}
	return text, nil
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
