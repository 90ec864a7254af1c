// Package engine parses command-line arguments and dispatches them to
// commands in a registry.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/appcli/internal/command"
)

// ExitUsage is returned for unknown commands and malformed root flags.
const ExitUsage = 64

// Engine dispatches arguments to a registered command.
type Engine interface {
	Execute(ctx context.Context, reg *command.Registry, args []string) (int, error)
}

// UsageError reports arguments that do not select a command.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// Cobra is an Engine built on spf13/cobra. Each registered command becomes
// a subcommand with flag parsing disabled, so handlers receive their
// arguments verbatim.
type Cobra struct {
	Name    string
	Short   string
	Version string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewCobra creates a Cobra engine writing to the process streams.
func NewCobra(name, short, version string) *Cobra {
	return &Cobra{
		Name:    name,
		Short:   short,
		Version: version,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Execute implements Engine.
func (c *Cobra) Execute(ctx context.Context, reg *command.Registry, args []string) (int, error) {
	code := command.ExitOK
	root := c.build(reg, &code)
	// cobra reads os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var usage *UsageError
		if errors.As(err, &usage) {
			fmt.Fprintf(c.Stderr, "Error: %v\nRun '%s --help' for usage.\n", usage.Err, c.Name)
			return ExitUsage, err
		}
		fmt.Fprintf(c.Stderr, "Error: %v\n", err)
		return command.ExitFailed, err
	}
	return code, nil
}

// build assembles a fresh command tree for one execution.
func (c *Cobra) build(reg *command.Registry, code *int) *cobra.Command {
	root := &cobra.Command{
		Use:           c.Name,
		Short:         c.Short,
		Version:       c.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &UsageError{Err: fmt.Errorf("unknown command %q for %q", args[0], c.Name)}
			}
			return cmd.Help()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(c.Name + " version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	root.SetIn(c.Stdin)
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)

	for _, cmd := range reg.All() {
		root.AddCommand(c.subcommand(reg, cmd, code))
	}
	return root
}

func (c *Cobra) subcommand(reg *command.Registry, cmd command.Command, code *int) *cobra.Command {
	handler := cmd.Handler
	return &cobra.Command{
		Use:                cmd.Name,
		Short:              cmd.Description,
		Hidden:             cmd.Hidden,
		DisableFlagParsing: true,
		RunE: func(cc *cobra.Command, args []string) error {
			if handler == nil {
				return fmt.Errorf("command %q has no handler", cmd.Name)
			}
			*code = handler.Execute(cc.Context(), &command.Invocation{
				Args:     args,
				Stdin:    c.Stdin,
				Stdout:   c.Stdout,
				Stderr:   c.Stderr,
				Registry: reg,
			})
			return nil
		},
	}
}
