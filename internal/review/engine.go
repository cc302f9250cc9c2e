package review

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/quill/internal/cache"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/extract"
	"github.com/dshills/quill/internal/gerrit"
	"github.com/dshills/quill/internal/providers"
	"github.com/dshills/quill/internal/redact"
)

// Client is the part of the Gerrit API the engine needs.
type Client interface {
	gerrit.Fetcher
	Files(ctx context.Context, changeID, revision string) ([]gerrit.FileEntry, error)
	PostReview(ctx context.Context, changeID, revision string, review gerrit.ReviewInput) error
}

// Options tune a review run.
type Options struct {
	Numbering          extract.Numbering
	Workers            int
	MaxCommentsPerFile int
	Include            []string
	Exclude            []string
	Message            string
	Tag                string

	// Model is recorded in the report and the cache key.
	Model  string
	DryRun bool
}

// OptionsFromConfig derives run options from a resolved configuration.
func OptionsFromConfig(cfg config.Config) Options {
	numbering, _ := extract.ParseNumbering(cfg.LineNumbering)
	return Options{
		Numbering:          numbering,
		Workers:            cfg.Workers,
		MaxCommentsPerFile: cfg.MaxCommentsPerFile,
		Include:            cfg.Include,
		Exclude:            cfg.Exclude,
		Message:            cfg.Review.Message,
		Tag:                cfg.Review.Tag,
		Model:              cfg.Rater.Model,
	}
}

// Engine reviews changes. Cache and Policy may be nil, which disables caching
// and redaction respectively.
type Engine struct {
	Client  Client
	Rater   providers.Rater
	Cache   *cache.Cache
	Policy  *redact.Policy
	Options Options
	Logger  *slog.Logger
}

// ReviewChange reviews one revision and, unless Options.DryRun is set, posts
// the comments as a single review. Files that cannot be extracted and lines
// the rater fails on are logged and skipped. An authentication failure from
// the rater aborts the run. When posting fails the report is returned along
// with the error.
func (e *Engine) ReviewChange(ctx context.Context, ref gerrit.ChangeRef) (*Report, error) {
	startTime := time.Now()
	log := e.logger().With("change", ref.String())

	entries, err := e.Client.Files(ctx, ref.ID, ref.Revision)
	if err != nil {
		return nil, err
	}
	listMs := time.Since(startTime).Milliseconds()

	files := make([]FileReport, len(entries))
	comments := make([][]Comment, len(entries))

	reviewStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, entry := range entries {
		if reason := e.skipReason(entry); reason != "" {
			log.Debug("skipping file", "path", entry.Path, "reason", reason)
			files[i] = FileReport{Path: entry.Path, Skipped: reason}
			continue
		}
		i, entry := i, entry
		g.Go(func() error {
			fr, cs, err := e.reviewFile(gctx, ref, entry.Path)
			files[i] = fr
			comments[i] = cs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	reviewMs := time.Since(reviewStart).Milliseconds()

	var all []Comment
	for _, cs := range comments {
		all = append(all, cs...)
	}
	if all == nil {
		all = []Comment{}
	}

	report := &Report{
		Tool:    "quill",
		Version: "1.0",
		RunID:   generateRunID(),
		Change: ChangeInfo{
			ID:       ref.ID,
			Number:   ref.Number,
			Revision: ref.Revision,
		},
		Rater:    e.Rater.Name(),
		Model:    e.Options.Model,
		Summary:  ComputeSummary(files),
		Files:    files,
		Comments: all,
		DryRun:   e.Options.DryRun,
		Timing: Timing{
			ListMs:   listMs,
			ReviewMs: reviewMs,
		},
	}

	if len(all) > 0 && !e.Options.DryRun {
		postStart := time.Now()
		in := ReviewInput(all, e.Options.Message, e.Options.Tag)
		if err := e.Client.PostReview(ctx, ref.ID, ref.Revision, in); err != nil {
			report.Timing.TotalMs = time.Since(startTime).Milliseconds()
			return report, fmt.Errorf("posting review: %w", err)
		}
		report.Posted = true
		report.Timing.PostMs = time.Since(postStart).Milliseconds()
		log.Info("posted review", "comments", len(all), "files", len(in.Comments))
	} else if len(all) == 0 {
		log.Info("no comments to post")
	}

	report.Timing.TotalMs = time.Since(startTime).Milliseconds()
	return report, nil
}

func (e *Engine) skipReason(f gerrit.FileEntry) string {
	switch {
	case gerrit.IsMagicPath(f.Path):
		return SkipMagic
	case f.Deleted():
		return SkipDeleted
	case f.Info.Binary:
		return SkipBinary
	case len(e.Options.Include) > 0 && !redact.MatchPath(f.Path, e.Options.Include):
		return SkipFiltered
	case redact.MatchPath(f.Path, e.Options.Exclude):
		return SkipFiltered
	case e.Policy != nil && e.Policy.SkipFile(f.Path):
		return SkipRedacted
	}
	return ""
}

func (e *Engine) reviewFile(ctx context.Context, ref gerrit.ChangeRef, path string) (FileReport, []Comment, error) {
	log := e.logger().With("path", path)
	ex := &extract.Extractor{
		Source:  gerrit.FileSource{Client: e.Client, ChangeID: ref.ID, Revision: ref.Revision},
		Decode:  extract.Base64,
		Options: extract.Options{Numbering: e.Options.Numbering},
		Logger:  log,
	}
	res := ex.Extract(ctx, path)

	fr := FileReport{Path: path, Strategy: res.Strategy, Lines: len(res.Lines)}
	for _, err := range res.Errs {
		fr.Errors = append(fr.Errors, err.Error())
	}
	log.Info("extracted lines", "strategy", res.Strategy, "lines", len(res.Lines))

	var comments []Comment
	for _, line := range res.Lines {
		if err := ctx.Err(); err != nil {
			return fr, comments, err
		}
		if limit := e.Options.MaxCommentsPerFile; limit > 0 && len(comments) >= limit {
			fr.Capped = true
			log.Debug("comment cap reached", "max", limit)
			break
		}

		code := line.Content
		if e.Policy != nil {
			code = e.Policy.Line(code)
		}
		msg, hit, err := e.rate(ctx, code)
		if err != nil {
			if providers.IsAuthError(err) {
				return fr, comments, fmt.Errorf("rating %s:%d: %w", path, line.Number, err)
			}
			if ctx.Err() != nil {
				return fr, comments, ctx.Err()
			}
			fr.RaterErrors++
			log.Warn("rater failed, dropping line", "line", line.Number, "err", err)
			continue
		}
		fr.Rated++
		if hit {
			fr.CacheHits++
		}
		if msg == "" {
			continue
		}
		comments = append(comments, Comment{Path: path, Line: line.Number, Code: code, Message: msg})
	}
	fr.Comments = len(comments)
	return fr, comments, nil
}

// rate returns the rater's comment for code, consulting the cache first.
func (e *Engine) rate(ctx context.Context, code string) (msg string, hit bool, err error) {
	key := cache.LineKey(e.Rater.Name(), e.Options.Model, code)
	if e.Cache != nil {
		if msg, ok := e.Cache.Get(key); ok {
			return msg, true, nil
		}
	}
	msg, err = e.Rater.RateLine(ctx, code)
	if err != nil {
		return "", false, err
	}
	if e.Cache != nil {
		if err := e.Cache.Put(key, msg); err != nil {
			e.logger().Debug("cache write failed", "err", err)
		}
	}
	return msg, false, nil
}

func (e *Engine) workers() int {
	if e.Options.Workers > 0 {
		return e.Options.Workers
	}
	return 1
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func generateRunID() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	return fmt.Sprintf("%x", h[:16])
}
