package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/providers"
)

var ratersCmd = &cobra.Command{
	Use:   "raters",
	Short: "Line rater management",
}

type raterInfo struct {
	Name   string
	Env    string
	Models []string
}

var knownRaters = []raterInfo{
	{
		Name: "endpoint",
		Env:  "LLM_API",
	},
	{
		Name: "anthropic",
		Env:  "ANTHROPIC_API_KEY",
		Models: []string{
			"claude-sonnet-4-20250514",
			"claude-haiku-4-5",
		},
	},
	{
		Name: "openai",
		Env:  "OPENAI_API_KEY",
		Models: []string{
			"gpt-4o-mini",
			"gpt-4.1-mini",
		},
	},
	{
		Name: "ollama",
		Env:  "OLLAMA_HOST",
		Models: []string{
			"llama3",
			"qwen2.5-coder",
			"codellama",
		},
	},
	{
		Name: "lmstudio",
		Env:  "OLLAMA_HOST",
	},
}

var ratersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known raters and models",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, info := range knownRaters {
			fmt.Fprintf(out, "%s (%s):\n", info.Name, info.Env)
			for _, m := range info.Models {
				fmt.Fprintf(out, "  - %s\n", m)
			}
			fmt.Fprintln(out)
		}
	},
}

// probeLine is rated by the doctor command.
const probeLine = `password := "hunter2"`

var ratersDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the configured rater answers",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fail(err)
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Checking %s...\n", cfg.Rater.Provider)

		r, err := providers.New(cfg.Rater)
		if err != nil {
			fail(err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		comment, err := r.RateLine(ctx, probeLine)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			exitCode = exitCodeFor(err)
			return
		}
		if comment == "" {
			comment = "(no comment)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %s is responding\n  %s\n  -> %s\n", r.Name(), probeLine, comment)
	},
}

func init() {
	ratersCmd.AddCommand(ratersListCmd)
	ratersCmd.AddCommand(ratersDoctorCmd)
	addRaterFlags(ratersDoctorCmd.Flags())
}
