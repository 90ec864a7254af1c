package bootstrap

import (
	"github.com/Aman-CERP/appcli/internal/command"
	"github.com/Aman-CERP/appcli/internal/engine"
)

// Process exit codes.
const (
	ExitOK            = command.ExitOK
	ExitCommandFailed = command.ExitFailed
	// ExitProbeFailed is returned when the working directory is unusable.
	// It is deliberately distinct from ExitOK.
	ExitProbeFailed = 2
	// ExitInitFailed is returned when command discovery failed, even if the
	// dispatched command itself succeeded.
	ExitInitFailed = 3
	// ExitUsage is returned by the engine for unknown commands or bad flags.
	ExitUsage = engine.ExitUsage
)
