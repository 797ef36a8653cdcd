package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
	"github.com/Johannes-Berggren/mkgitbranch/internal/validation"
)

// BuildCommand splits a branch-create command template into argv and
// replaces the branch name token in every argument. The command is executed
// directly, never through a shell.
func BuildCommand(template, branch string) ([]string, error) {
	argv, err := shellquote.Split(template)
	if err != nil {
		return nil, fmt.Errorf("invalid branch create command template: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("branch create command template is empty")
	}

	found := false
	for i, arg := range argv {
		if strings.Contains(arg, config.BranchNameToken) {
			argv[i] = strings.ReplaceAll(arg, config.BranchNameToken, branch)
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("branch create command template has no %s token", config.BranchNameToken)
	}
	return argv, nil
}

// CreateBranch runs the command built from template and then confirms HEAD
// moved to branch. Failures are returned as-is; nothing is retried.
func (c *Client) CreateBranch(ctx context.Context, template, branch string) error {
	argv, err := BuildCommand(template, branch)
	if err != nil {
		return err
	}

	c.logger.Info().Str("branch", branch).Strs("argv", argv).Msg("creating branch")
	if _, err := c.runner.Run(ctx, argv[0], argv[1:]...); err != nil {
		c.logger.Error().Err(err).Str("branch", branch).Msg("branch create command failed")
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}

	current, err := c.CurrentBranch()
	if err != nil {
		return fmt.Errorf("%w: expected %q but the current branch could not be read: %v", ErrBranchMismatch, branch, err)
	}
	if current != branch {
		c.logger.Error().Str("expected", branch).Str("current", current).Msg("branch switch failed")
		return fmt.Errorf("%w: expected %q but current branch is %q", ErrBranchMismatch, branch, current)
	}
	return nil
}

// Prefill extracts a ticket id and a branch type from an existing branch name
// such as "alice/feat/ABC-123/thing". Each "/" separated segment is tested;
// the first segment matching each field wins. Missing parts come back empty.
func Prefill(branch string, v *validation.Validator) (jira, branchType string) {
	for _, seg := range strings.Split(branch, "/") {
		if jira == "" && v.Check(models.FieldJira, seg) == models.StatusValid {
			jira = seg
		}
		if branchType == "" && v.IsType(seg) {
			branchType = seg
		}
	}
	return jira, branchType
}
