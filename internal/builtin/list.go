package builtin

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/appcli/internal/command"
)

type listEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Hidden      bool   `json:"hidden,omitempty"`
}

func newListCmd(_ Env, inv *command.Invocation) *cobra.Command {
	var (
		jsonOutput bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available commands",
		Long: `List every command discovered in this run, in priority order.

Hidden commands are omitted unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cmds []command.Command
			if inv.Registry != nil {
				if all {
					cmds = inv.Registry.All()
				} else {
					cmds = inv.Registry.Visible()
				}
			}

			if jsonOutput {
				entries := make([]listEntry, 0, len(cmds))
				for _, c := range cmds {
					entries = append(entries, listEntry{
						Name: c.Name, Description: c.Description, Source: c.Source, Hidden: c.Hidden,
					})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Command", "Source", "Description"})
			for _, c := range cmds {
				t.AppendRow(table.Row{c.Name, c.Source, c.Description})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden commands")

	return cmd
}
