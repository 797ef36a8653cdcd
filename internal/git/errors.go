package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotARepository means the work tree is not inside a git repository.
	ErrNotARepository = errors.New("not a git repository")

	// ErrNotOnBranch means HEAD is detached.
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrDirtyWorkTree means there are uncommitted changes and allow_dirty is off.
	ErrDirtyWorkTree = errors.New("working tree has uncommitted changes")

	// ErrForbiddenSource means the current branch may not be branched from.
	ErrForbiddenSource = errors.New("branching from this branch is not allowed")

	// ErrBranchMismatch means the create command succeeded but HEAD is not on
	// the new branch afterwards.
	ErrBranchMismatch = errors.New("branch switch failed")

	// ErrNotADirectory means the directory argument does not name a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// CommandError is returned when an external command exits unsuccessfully.
type CommandError struct {
	Command  string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += " " + strings.Join(e.Args, " ")
	}
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if out := e.Output(); out != "" {
		msg += "\n" + out
	} else if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Output is what the user should see: stderr, else stdout.
func (e *CommandError) Output() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(e.Stdout)
}
