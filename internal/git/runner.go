// Package git wraps the git operations mkgitbranch needs: reading the current
// branch, checking the working tree and running the branch-create command.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
)

// DefaultCommandTimeout bounds every external command without a deadline.
const DefaultCommandTimeout = 2 * time.Minute

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// CommandRunner runs commands in a fixed directory with a fixed environment.
type CommandRunner struct {
	dir    string
	env    []string
	logger *logger.Logger
}

// NewCommandRunner creates a CommandRunner. A nil env inherits the process
// environment.
func NewCommandRunner(dir string, env []string, log *logger.Logger) *CommandRunner {
	return &CommandRunner{dir: dir, env: env, logger: log.Named("exec")}
}

// Run executes name with args. A non-zero exit is returned as *CommandError.
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if r.dir != "" {
		cmd.Dir = r.dir
	}
	if r.env != nil {
		cmd.Env = r.env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().
		Str("cmd", name).
		Strs("args", args).
		Str("dir", r.dir).
		Strs("env", logger.FilterEnv(r.env)).
		Msg("running command")

	err := cmd.Run()

	r.logger.Debug().
		Str("cmd", name).
		Str("stdout", stdout.String()).
		Str("stderr", stderr.String()).
		Msg("command finished")

	if err != nil {
		cerr := &CommandError{
			Command: name,
			Args:    args,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return "", cerr
	}
	return stdout.String(), nil
}
