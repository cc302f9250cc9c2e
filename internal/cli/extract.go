package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/extract"
)

var (
	flagExtractBase64   bool
	flagExtractFullFile bool
	flagExtractJSON     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the added lines of a patch",
	Long: "Read a unified diff from a file or stdin and print the post-patch line number and " +
		"content of every added line. With --full-file the input is treated as a whole file " +
		"and every non-blank line is printed instead. Nothing is sent anywhere.",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExtract(cmd, args); err != nil {
			fail(err)
		}
	},
}

func runExtract(cmd *cobra.Command, args []string) error {
	numbering, ok := extract.ParseNumbering(flagLineNumbering)
	if !ok {
		return usagef("--line-numbering must be compat or accurate, got %q", flagLineNumbering)
	}

	var (
		body []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		body, err = os.ReadFile(args[0])
	} else {
		body, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	decode := extract.Plain
	if flagExtractBase64 {
		decode = extract.Base64
	}
	text, err := decode(body)
	if err != nil {
		return &usageError{err: fmt.Errorf("decoding input: %w", err)}
	}

	var lines []extract.AddedLine
	if flagExtractFullFile {
		lines = extract.FileLines(text)
	} else {
		var errs []error
		lines, errs = extract.AddedLines(text, extract.Options{Numbering: numbering})
		if flagVerbose {
			for _, e := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", e)
			}
		}
	}

	out := cmd.OutOrStdout()
	if flagExtractJSON {
		if lines == nil {
			lines = []extract.AddedLine{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}
	for _, l := range lines {
		fmt.Fprintf(out, "%d\t%s\n", l.Number, l.Content)
	}
	return nil
}

func init() {
	fs := extractCmd.Flags()
	fs.BoolVar(&flagExtractBase64, "base64", false, "Input is base64 encoded, as Gerrit serves it")
	fs.BoolVar(&flagExtractFullFile, "full-file", false, "Treat the input as a whole file")
	fs.BoolVar(&flagExtractJSON, "json", false, "Print the lines as JSON")
	fs.StringVar(&flagLineNumbering, "line-numbering", "", "Removed-line numbering (compat, accurate)")
	fs.BoolVarP(&flagVerbose, "verbose", "v", false, "Report skipped patch lines on stderr")
}
