package builtin

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/appcli/internal/aggregate"
	"github.com/Aman-CERP/appcli/internal/command"
)

func newSourcesCmd(env Env, _ *command.Invocation) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Show which command sources were loaded",
		Long: `Show every configured command source in priority order, whether it
contributed commands, was skipped, failed, or was never queried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var report []aggregate.SourceReport
			if env.Report != nil {
				report = env.Report()
			}
			if report == nil {
				report = []aggregate.SourceReport{}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Source", "Outcome", "Commands", "Overridden", "Error"})
			for _, r := range report {
				t.AppendRow(table.Row{r.Source, string(r.Outcome), r.Commands, r.Overridden, r.Error})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
