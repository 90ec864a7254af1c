package source

import (
	"context"

	"github.com/Aman-CERP/appcli/internal/command"
)

// Source produces commands.
//
// Commands may return a non-empty slice together with an error; the
// commands produced before the failure are still merged by the aggregator.
type Source interface {
	Name() string
	Commands(ctx context.Context) ([]command.Command, error)
}

// Gated is implemented by sources whose presence depends on deployment
// state. Available returning (false, nil) means the source is absent and
// must be skipped; a non-nil error is a failure.
type Gated interface {
	Available(ctx context.Context) (bool, error)
}

// Static is a source backed by a fixed list of commands.
type Static struct {
	ID   string
	List []command.Command
}

// Name implements Source.
func (s *Static) Name() string { return s.ID }

// Commands implements Source. Each command is attributed to the source.
func (s *Static) Commands(context.Context) ([]command.Command, error) {
	out := make([]command.Command, len(s.List))
	for i, c := range s.List {
		c.Source = s.ID
		out[i] = c
	}
	return out, nil
}

// Func adapts a function to a Source.
type Func struct {
	ID string
	Fn func(ctx context.Context) ([]command.Command, error)
}

// Name implements Source.
func (f *Func) Name() string { return f.ID }

// Commands implements Source.
func (f *Func) Commands(ctx context.Context) ([]command.Command, error) {
	return f.Fn(ctx)
}

// attribute stamps the source name on commands that do not carry one.
func attribute(name string, cmds []command.Command) []command.Command {
	for i := range cmds {
		if cmds[i].Source == "" {
			cmds[i].Source = name
		}
	}
	return cmds
}
