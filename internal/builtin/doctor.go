package builtin

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/appcli/internal/command"
	"github.com/Aman-CERP/appcli/internal/preflight"
)

type doctorReport struct {
	WorkDir string                  `json:"work_dir"`
	Status  string                  `json:"status"`
	Checks  []preflight.CheckResult `json:"checks"`
}

func newDoctorCmd(env Env, _ *command.Invocation) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment the command line runs in",
		Long: `Run diagnostics on the generated code directory.

Checks:
  - Write permissions (live write probe, required)
  - Disk space (warning only)
  - File descriptor limits (warning only)

Exits with status 1 when a required check fails.`,
		Example: `  # Run diagnostics
  appcli doctor

  # JSON output for scripting
  appcli doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker := preflight.New(
				preflight.WithOutput(cmd.OutOrStdout()),
				preflight.WithVerbose(verbose),
			)
			results := checker.RunAll(cmd.Context(), env.WorkDir)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(doctorReport{
					WorkDir: env.WorkDir,
					Status:  checker.SummaryStatus(results),
					Checks:  results,
				}); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return &exitError{code: command.ExitFailed}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
