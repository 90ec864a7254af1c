package command

import (
	"context"
	"io"
)

// Exit codes shared by handlers.
const (
	ExitOK     = 0
	ExitFailed = 1
)

// Invocation carries everything a handler needs for one run.
type Invocation struct {
	// Args are the arguments following the command name, unparsed.
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Registry is the full set of commands available in this run.
	Registry *Registry
}

// Handler executes a command and reports its exit code.
type Handler interface {
	Execute(ctx context.Context, inv *Invocation) int
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(ctx context.Context, inv *Invocation) int

// Execute calls f(ctx, inv).
func (f HandlerFunc) Execute(ctx context.Context, inv *Invocation) int {
	return f(ctx, inv)
}

// Command is a runnable, named unit discovered from a source.
type Command struct {
	Name        string
	Description string
	Handler     Handler

	// Source is the name of the source that produced the command.
	Source string
	// Hidden commands are dispatchable but omitted from listings.
	Hidden bool
}
