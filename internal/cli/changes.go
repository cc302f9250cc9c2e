package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/gerrit"
)

var (
	flagQuery       string
	flagChangesJSON bool
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List open Gerrit changes",
	Long:  "List the changes matching a Gerrit query (status:open by default) with their current revision.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runChanges(cmd.Context(), cmd); err != nil {
			fail(err)
		}
	},
}

func runChanges(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(nil)
	if err != nil {
		return &usageError{err: err}
	}
	client, err := gerrit.NewClient(cfg.Gerrit)
	if err != nil {
		return &usageError{err: err}
	}

	changes, err := client.OpenChanges(ctx, flagQuery)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagChangesJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(changes)
	}
	if len(changes) == 0 {
		fmt.Fprintln(out, "No matching changes.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tPROJECT\tREVISION\tSUBJECT")
	for _, c := range changes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Number, c.Project, gerrit.ShortRev(c.CurrentRevision), c.Subject)
	}
	return tw.Flush()
}

func init() {
	changesCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "Gerrit search query (default: status:open)")
	changesCmd.Flags().BoolVar(&flagChangesJSON, "json", false, "Print the changes as JSON")
}

