package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Johannes-Berggren/mkgitbranch/internal/git"
)

// Outcome is how a form session ended.
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeCreated
	OutcomeCopied
	OutcomeTimedOut
)

// ExitCancelled is the process exit code when the user closes the form
// without creating or copying a branch.
const ExitCancelled = 100

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeCopied:
		return "copied"
	case OutcomeTimedOut:
		return "timed out"
	}
	return "cancelled"
}

// Result reports what the form did.
type Result struct {
	Outcome Outcome
	Branch  string
	Err     error
}

// ExitCode maps the outcome to the process exit status.
func (r Result) ExitCode() int {
	switch r.Outcome {
	case OutcomeCreated, OutcomeCopied:
		return 0
	case OutcomeTimedOut:
		return 1
	}
	return ExitCancelled
}

// GitActions creates branches through a git.Client and copies names to the
// system clipboard.
type GitActions struct {
	Client   *git.Client
	Template string
}

func (a GitActions) CreateBranch(ctx context.Context, name string) error {
	return a.Client.CreateBranch(ctx, a.Template, name)
}

func (a GitActions) Copy(name string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility found")
	}
	if err := clipboard.WriteAll(name); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// Run shows the form on the alternate screen until the user creates a
// branch, copies a name and leaves, cancels, or the inactivity timeout fires.
func Run(opts FormOptions) (Result, error) {
	form := NewBranchForm(opts)

	p := tea.NewProgram(form, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("error running form: %w", err)
	}

	if f, ok := final.(*BranchForm); ok {
		return f.Result(), nil
	}
	return form.Result(), nil
}
