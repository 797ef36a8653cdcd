package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
)

// CheckClean fails with ErrDirtyWorkTree when files is non-empty and dirty
// trees are not allowed.
func CheckClean(files []models.PathChange, allowDirty bool) error {
	if allowDirty || len(files) == 0 {
		return nil
	}

	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, "  "+f.String())
	}
	return fmt.Errorf("%w (%d files):\n%s", ErrDirtyWorkTree, len(files), strings.Join(lines, "\n"))
}

// CheckSource fails with ErrForbiddenSource when branch fully matches one of
// the forbidden patterns. A pattern that is not a valid regular expression is
// compared literally.
func CheckSource(branch string, forbidden []string) error {
	for _, pattern := range forbidden {
		if matchesWhole(pattern, branch) {
			return fmt.Errorf("%w: %q matches %q", ErrForbiddenSource, branch, pattern)
		}
	}
	return nil
}

func matchesWhole(pattern, s string) bool {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return pattern == s
	}
	return re.MatchString(s)
}

// Guard runs the pre-flight checks: the working tree must be clean unless
// allowDirty, and the current branch must not be forbidden. A detached HEAD
// skips the source branch check.
func (c *Client) Guard(ctx context.Context, allowDirty bool, forbidden []string) error {
	if !allowDirty {
		files, err := c.DirtyFiles(ctx)
		if err != nil {
			return fmt.Errorf("failed to read working tree status: %w", err)
		}
		if err := CheckClean(files, allowDirty); err != nil {
			return err
		}
	}

	if len(forbidden) == 0 {
		return nil
	}

	branch, err := c.CurrentBranch()
	if errors.Is(err, ErrNotOnBranch) {
		return nil
	}
	if err != nil {
		return err
	}
	return CheckSource(branch, forbidden)
}
