// Package builtin provides the framework command source: the commands that
// ship with appcli itself and are always available.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/appcli/internal/aggregate"
	"github.com/Aman-CERP/appcli/internal/command"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/source"
)

// Env is what the framework commands need from the running process.
type Env struct {
	// WorkDir is the generated-code directory.
	WorkDir string
	// ProjectRoot is where config:init writes the project config.
	ProjectRoot string
	// UserConfigPath is where config:init --user writes the user config.
	UserConfigPath string
	// Report returns the aggregation report of the current run.
	Report func() []aggregate.SourceReport
	Logger *slog.Logger
}

// NewSource returns the framework source.
func NewSource(env Env) source.Source {
	return &source.Static{ID: source.Framework, List: Commands(env)}
}

// Commands returns the framework commands in listing order.
func Commands(env Env) []command.Command {
	if env.Logger == nil {
		env.Logger = slog.Default()
	}
	return []command.Command{
		{Name: "list", Description: "List available commands", Handler: handler(env, newListCmd)},
		{Name: "version", Description: "Print version information", Handler: handler(env, newVersionCmd)},
		{Name: "doctor", Description: "Check the environment the command line runs in", Handler: handler(env, newDoctorCmd)},
		{Name: "sources", Description: "Show which command sources were loaded", Handler: handler(env, newSourcesCmd)},
		{Name: "generated:clean", Description: "Remove the contents of the generated code directory", Handler: handler(env, newCleanCmd)},
		{Name: "config:init", Description: "Create a configuration file from the default template", Handler: handler(env, newConfigInitCmd)},
	}
}

// exitError carries a specific exit code out of a cobra RunE. The message,
// if any, has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// cobraHandler runs a cobra command built per invocation, so that each
// framework command parses its own flags.
type cobraHandler struct {
	env   Env
	build func(Env, *command.Invocation) *cobra.Command
}

func handler(env Env, build func(Env, *command.Invocation) *cobra.Command) command.Handler {
	return &cobraHandler{env: env, build: build}
}

// Execute implements command.Handler.
func (h *cobraHandler) Execute(ctx context.Context, inv *command.Invocation) int {
	cmd := h.build(h.env, inv)
	args := inv.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(inv.Stdin)
	cmd.SetOut(inv.Stdout)
	cmd.SetErr(inv.Stderr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return command.ExitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	h.env.Logger.Debug("Framework command failed",
		slog.String("command", cmd.Name()),
		slog.String("error", err.Error()))
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		_, _ = fmt.Fprint(inv.Stderr, apperrors.FormatForCLI(err))
	} else {
		_, _ = fmt.Fprintf(inv.Stderr, "Error: %v\n", err)
	}
	return command.ExitFailed
}
