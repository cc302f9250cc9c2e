package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/quill/internal/cache"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/gerrit"
	"github.com/dshills/quill/internal/output"
	"github.com/dshills/quill/internal/providers"
	"github.com/dshills/quill/internal/redact"
	"github.com/dshills/quill/internal/review"
)

// Shared review flags
var (
	flagProvider      string
	flagModel         string
	flagRaterURL      string
	flagPaths         string
	flagExclude       string
	flagWorkers       int
	flagFormat        string
	flagOut           string
	flagMaxComments   int
	flagLineNumbering string
	flagDryRun        bool
	flagNoRedact      bool
	flagNoCache       bool
	flagVerbose       bool
)

func addRaterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagProvider, "provider", "", "Line rater (endpoint, anthropic, openai, ollama, lmstudio)")
	fs.StringVar(&flagModel, "model", "", "Model name for chat raters")
	fs.StringVar(&flagRaterURL, "rater-url", "", "URL of the rating endpoint")
}

func addReviewFlags(fs *pflag.FlagSet) {
	addRaterFlags(fs)
	fs.StringVar(&flagPaths, "paths", "", "Include file path globs (comma-separated)")
	fs.StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	fs.IntVar(&flagWorkers, "workers", 0, "Files reviewed concurrently")
	fs.StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	fs.StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	fs.IntVar(&flagMaxComments, "max-comments", 0, "Maximum comments per file (0 = unlimited)")
	fs.StringVar(&flagLineNumbering, "line-numbering", "", "Removed-line numbering (compat, accurate)")
	fs.BoolVar(&flagDryRun, "dry-run", false, "Rate lines and print the report without posting")
	fs.BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	fs.BoolVar(&flagNoCache, "no-cache", false, "Do not read or write the rater cache")
	fs.BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug details to stderr")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagRaterURL != "" {
		m["rater.url"] = flagRaterURL
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagPaths != "" {
		m["include"] = flagPaths
	}
	if flagWorkers > 0 {
		m["workers"] = strconv.Itoa(flagWorkers)
	}
	if flagMaxComments > 0 {
		m["maxCommentsPerFile"] = strconv.Itoa(flagMaxComments)
	}
	if flagLineNumbering != "" {
		m["lineNumbering"] = flagLineNumbering
	}
	if flagNoCache {
		m["cache.enabled"] = "false"
	}
	return m
}

// loadConfig resolves the configuration for a command. --exclude appends to
// the configured excludes rather than replacing them.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return config.Config{}, &usageError{err: err}
	}
	if flagExclude != "" {
		cfg.Exclude = append(cfg.Exclude, splitComma(flagExclude)...)
	}
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	return cfg, nil
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

var reviewCmd = &cobra.Command{
	Use:   "review <change>",
	Short: "Review one Gerrit change and post inline comments",
	Long: "Review the current revision of a change (by number or ID). Every added line of every " +
		"file is sent to the rater, and the non-empty answers are posted as a single review.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := runReview(ctx, args[0]); err != nil {
			fail(err)
		}
	},
}

func runReview(ctx context.Context, change string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, flagVerbose)

	client, err := gerrit.NewClient(cfg.Gerrit)
	if err != nil {
		return &usageError{err: err}
	}
	rater, err := providers.New(cfg.Rater)
	if err != nil {
		return fmt.Errorf("creating rater: %w", err)
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	info, err := client.Change(ctx, change)
	if err != nil {
		return err
	}
	ref := info.Ref()
	logger.Info("reviewing change", "change", ref.String(), "subject", info.Subject, "rater", rater.Name())

	opts := review.OptionsFromConfig(cfg)
	opts.DryRun = flagDryRun
	engine := &review.Engine{
		Client:  client,
		Rater:   rater,
		Cache:   c,
		Policy:  redact.NewPolicy(cfg.Privacy),
		Options: opts,
		Logger:  logger,
	}

	report, err := engine.ReviewChange(ctx, ref)
	if report != nil {
		if werr := output.WriteReport(report, cfg.Format, flagOut); werr != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", werr)
			if err == nil {
				exitCode = ExitRuntimeError
			}
		}
	}
	return err
}

func init() {
	addReviewFlags(reviewCmd.Flags())
}
