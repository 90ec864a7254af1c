package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Aman-CERP/appcli/internal/aggregate"
	"github.com/Aman-CERP/appcli/internal/command"
	"github.com/Aman-CERP/appcli/internal/engine"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/output"
	"github.com/Aman-CERP/appcli/internal/preflight"
	"github.com/Aman-CERP/appcli/internal/source"
)

// Prober checks that a directory is usable before anything runs.
type Prober interface {
	Probe(dir string) preflight.ProbeResult
}

// Config holds the values the bootstrapper needs from configuration.
type Config struct {
	// WorkDir is the generated-code directory that must be writable.
	WorkDir string
	// Policy decides whether aggregation halts on the first source failure.
	Policy aggregate.Policy
}

// Deps are the collaborators of a Bootstrapper.
type Deps struct {
	Prober  Prober
	Sources []source.Source
	Engine  engine.Engine

	// Diagnostics receives user-facing banners. Defaults to stderr.
	Diagnostics io.Writer
	Logger      *slog.Logger
}

// Result is the outcome of a run.
type Result struct {
	ExitCode int
	// Err is the probe failure or the deferred initialization failure, or
	// the engine's error when neither happened.
	Err   error
	State State
}

// Bootstrapper drives one process run.
type Bootstrapper struct {
	cfg      Config
	prober   Prober
	sources  []source.Source
	engine   engine.Engine
	out      *output.Writer
	logger   *slog.Logger
	state    State
	deferred DeferredError
	report   []aggregate.SourceReport
}

// New creates a Bootstrapper. The sources are queried in the given order.
func New(cfg Config, deps Deps) *Bootstrapper {
	diag := deps.Diagnostics
	if diag == nil {
		diag = os.Stderr
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prober := deps.Prober
	if prober == nil {
		prober = preflight.New(preflight.WithOutput(io.Discard))
	}

	return &Bootstrapper{
		cfg:     cfg,
		prober:  prober,
		sources: append([]source.Source(nil), deps.Sources...),
		engine:  deps.Engine,
		out:     output.New(diag),
		logger:  logger,
		state:   StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (b *Bootstrapper) State() State {
	return b.state
}

// Report returns the per-source aggregation outcomes of the run so far.
func (b *Bootstrapper) Report() []aggregate.SourceReport {
	return append([]aggregate.SourceReport(nil), b.report...)
}

// Run probes the working directory, aggregates commands and executes the
// command selected by args. A Bootstrapper runs once.
func (b *Bootstrapper) Run(ctx context.Context, args []string) Result {
	if b.state != StateUninitialized {
		return Result{
			ExitCode: ExitCommandFailed,
			Err:      apperrors.InternalError(fmt.Sprintf("bootstrapper already %s", b.state), nil),
			State:    b.state,
		}
	}
	if b.engine == nil {
		return Result{
			ExitCode: ExitCommandFailed,
			Err:      apperrors.InternalError("bootstrapper has no engine", nil),
			State:    b.state,
		}
	}

	if res, ok := b.probe(); !ok {
		return res
	}

	reg := b.aggregate(ctx)

	b.transition(StateExecuting)
	code, execErr := b.engine.Execute(ctx, reg, args)
	b.transition(StateCompleted)

	if initErr := b.deferred.Consume(); initErr != nil {
		b.reportDeferred(initErr, code)
		return Result{ExitCode: ExitInitFailed, Err: initErr, State: b.state}
	}

	if execErr != nil && code == ExitOK {
		code = ExitCommandFailed
	}
	return Result{ExitCode: code, Err: execErr, State: b.state}
}

// probe runs the write probe and handles the early-exit path.
func (b *Bootstrapper) probe() (Result, bool) {
	b.transition(StateProbeRunning)

	result := b.prober.Probe(b.cfg.WorkDir)
	if result.OK {
		b.transition(StateProbeOK)
		return Result{}, true
	}

	b.transition(StateProbeFailed)
	err := apperrors.ProbeError(b.cfg.WorkDir, result.Reason).
		WithSuggestion("Grant the command line user read and write access to " + b.cfg.WorkDir)

	b.logger.Error("Working directory probe failed",
		slog.String("dir", b.cfg.WorkDir),
		slog.String("reason", result.Reason))
	b.out.Banner(fmt.Sprintf(
		"Command line user does not have read and write permissions on %s. "+
			"Please address this issue before using the command line.", b.cfg.WorkDir),
		result.Reason)

	return Result{ExitCode: ExitProbeFailed, Err: err, State: b.state}, false
}

// aggregate collects commands; a failure is parked in the deferred slot.
func (b *Bootstrapper) aggregate(ctx context.Context) *command.Registry {
	b.transition(StateAggregating)

	agg := aggregate.New(
		aggregate.WithPolicy(b.cfg.Policy),
		aggregate.WithLogger(b.logger),
	)
	reg, err := agg.Aggregate(ctx, b.sources)
	b.report = agg.Report()
	if err != nil {
		b.deferred.Set(err)
		b.logger.Debug("Command discovery failure deferred", slog.String("error", err.Error()))
	}

	b.transition(StateReady)
	return reg
}

// reportDeferred surfaces a discovery failure after the command ran.
func (b *Bootstrapper) reportDeferred(err error, commandCode int) {
	attrs := []any{slog.Int("command_exit_code", commandCode)}
	for k, v := range apperrors.FormatForLog(err) {
		attrs = append(attrs, slog.Any(k, v))
	}
	b.logger.Error("Command initialization failed", attrs...)

	b.out.Banner(fmt.Sprintf(
		"We're sorry, an error occurred while initializing commands. "+
			"Try clearing the generated code directory (%s).", b.cfg.WorkDir),
		apperrors.FormatForCLI(err))
}

func (b *Bootstrapper) transition(to State) {
	b.logger.Debug("Bootstrap state change",
		slog.String("from", b.state.String()),
		slog.String("to", to.String()))
	b.state = to
}
