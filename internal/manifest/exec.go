package manifest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"

	"github.com/Aman-CERP/appcli/internal/command"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
)

// ExecHandler runs an external program for a manifest command.
type ExecHandler struct {
	Argv []string
	Dir  string
	Env  map[string]string
}

// Execute runs Argv followed by the invocation's arguments and returns the
// program's exit code. A program that cannot be started yields ExitFailed.
func (h *ExecHandler) Execute(ctx context.Context, inv *command.Invocation) int {
	args := append(append([]string(nil), h.Argv[1:]...), inv.Args...)
	c := exec.CommandContext(ctx, h.Argv[0], args...)
	c.Dir = h.Dir
	c.Stdin = inv.Stdin
	c.Stdout = inv.Stdout
	c.Stderr = inv.Stderr
	if len(h.Env) > 0 {
		c.Env = append(os.Environ(), h.envList()...)
	}

	err := c.Run()
	if err == nil {
		return command.ExitOK
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}

	runErr := apperrors.New(apperrors.ErrCodeCommandFailed, "failed to run "+h.Argv[0], err).
		WithDetail("program", h.Argv[0])
	slog.Error("Command process failed", slog.Any("error", apperrors.FormatForLog(runErr)))
	if inv.Stderr != nil {
		_, _ = fmt.Fprint(inv.Stderr, apperrors.FormatForCLI(runErr))
	}
	return command.ExitFailed
}

// envList renders Env as sorted KEY=value pairs.
func (h *ExecHandler) envList() []string {
	keys := make([]string, 0, len(h.Env))
	for k := range h.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+h.Env[k])
	}
	return out
}
