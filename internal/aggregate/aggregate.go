// Package aggregate merges the commands of several sources into one registry
// without letting a failing source take down the commands already found.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Aman-CERP/appcli/internal/command"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/source"
)

// Policy decides what happens to the remaining sources after a failure.
type Policy int

const (
	// HaltOnFailure abandons every source not yet attempted.
	HaltOnFailure Policy = iota
	// ContinueOnFailure keeps querying later sources. Only the first
	// failure is still reported.
	ContinueOnFailure
)

// ParsePolicy maps the configuration spelling to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "halt":
		return HaltOnFailure, nil
	case "continue":
		return ContinueOnFailure, nil
	default:
		return HaltOnFailure, fmt.Errorf("unknown source error policy %q (use halt or continue)", s)
	}
}

// String returns the configuration spelling.
func (p Policy) String() string {
	if p == ContinueOnFailure {
		return "continue"
	}
	return "halt"
}

// Outcome is what happened to one source during aggregation.
type Outcome string

const (
	OutcomeMerged       Outcome = "merged"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeFailed       Outcome = "failed"
	OutcomeNotAttempted Outcome = "not_attempted"
)

// SourceReport records the outcome of a single source.
type SourceReport struct {
	Source     string  `json:"source"`
	Outcome    Outcome `json:"outcome"`
	Commands   int     `json:"commands"`
	Overridden int     `json:"overridden"`
	Error      string  `json:"error,omitempty"`
}

// Aggregator queries sources in priority order.
type Aggregator struct {
	policy Policy
	logger *slog.Logger
	report []SourceReport
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPolicy sets the failure policy.
func WithPolicy(p Policy) Option {
	return func(a *Aggregator) {
		a.policy = p
	}
}

// WithLogger sets the logger used for per-source diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = l
	}
}

// New creates an Aggregator with the given options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		policy: HaltOnFailure,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate merges the commands of sources, in order, into a new registry.
//
// Each source's commands are merged as soon as the source returns them, so a
// later failure never discards earlier results. The first failure (gate
// error, listing error or panic) is returned as the deferred error. Under
// HaltOnFailure no further source is queried. The registry is never nil.
func (a *Aggregator) Aggregate(ctx context.Context, sources []source.Source) (*command.Registry, error) {
	reg := command.NewRegistry()
	a.report = make([]SourceReport, 0, len(sources))

	var firstErr error
	for i, src := range sources {
		if firstErr != nil && a.policy == HaltOnFailure {
			for _, rest := range sources[i:] {
				a.report = append(a.report, SourceReport{Source: rest.Name(), Outcome: OutcomeNotAttempted})
			}
			break
		}

		rep, err := a.visit(ctx, reg, src)
		a.report = append(a.report, rep)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.logger.Debug("Command aggregation finished",
		slog.Int("sources", len(sources)),
		slog.Int("commands", reg.Len()),
		slog.Bool("deferred_error", firstErr != nil))

	return reg, firstErr
}

// Report returns the per-source outcomes of the last Aggregate call.
func (a *Aggregator) Report() []SourceReport {
	return append([]SourceReport(nil), a.report...)
}

// visit queries one source and merges what it produced.
func (a *Aggregator) visit(ctx context.Context, reg *command.Registry, src source.Source) (rep SourceReport, err error) {
	name := src.Name()
	rep = SourceReport{Source: name}

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.SourceError(name, fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			rep.Outcome = OutcomeFailed
			rep.Error = err.Error()
			a.logger.Warn("Command source failed",
				slog.String("source", name),
				slog.Int("merged", rep.Commands),
				slog.String("error", err.Error()))
		}
	}()

	if g, ok := src.(source.Gated); ok {
		available, gateErr := g.Available(ctx)
		if gateErr != nil {
			return rep, apperrors.New(apperrors.ErrCodeSourceUnavailable,
				fmt.Sprintf("cannot determine whether command source %q is available", name), gateErr).
				WithDetail("source", name)
		}
		if !available {
			rep.Outcome = OutcomeSkipped
			a.logger.Debug("Command source unavailable, skipping", slog.String("source", name))
			return rep, nil
		}
	}

	cmds, listErr := src.Commands(ctx)
	for _, c := range cmds {
		if c.Source == "" {
			c.Source = name
		}
		if reg.Add(c) {
			rep.Overridden++
			a.logger.Debug("Command overridden", slog.String("command", c.Name), slog.String("source", name))
		}
		rep.Commands++
	}
	if listErr != nil {
		if apperrors.GetCode(listErr) == apperrors.ErrCodeUnknownSource {
			return rep, listErr
		}
		return rep, apperrors.SourceError(name, listErr)
	}

	rep.Outcome = OutcomeMerged
	return rep, nil
}
