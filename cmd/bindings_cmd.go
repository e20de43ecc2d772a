package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type bindingsCmd struct {
	asJSON bool
}

func (b *bindingsCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "List every registered identifier after boot",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&b.asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (b *bindingsCmd) run(c *cli, cmd *cobra.Command, _ []string) error {
	a, err := c.application()
	if err != nil {
		return err
	}
	entries := a.Bindings()

	if b.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSHARED\tRESOLVED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", e.ID, e.Kind, e.Shared, e.Resolved)
	}
	return w.Flush()
}
