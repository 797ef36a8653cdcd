package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
)

// Client runs git operations against one work tree.
type Client struct {
	workTree string
	runner   Runner
	head     func() (string, error)
	logger   *logger.Logger
}

// NewClient returns a Client for workTree. Commands run with env (nil
// inherits the process environment).
func NewClient(workTree string, env []string, log *logger.Logger) *Client {
	c := &Client{
		workTree: workTree,
		runner:   NewCommandRunner(workTree, env, log),
		logger:   log.Named("git"),
	}
	c.head = c.headFromRepository
	return c
}

// WorkTree returns the directory the client operates on.
func (c *Client) WorkTree() string {
	return c.workTree
}

// IsInsideWorkTree fails with ErrNotARepository unless git agrees the work
// tree belongs to a repository.
func (c *Client) IsInsideWorkTree(ctx context.Context) error {
	out, err := c.runner.Run(ctx, "git", "rev-parse", "--is-inside-work-tree")
	if err != nil {
		c.logger.Debug().Err(err).Str("dir", c.workTree).Msg("rev-parse failed")
		return fmt.Errorf("%s: %w", c.workTree, ErrNotARepository)
	}
	if strings.TrimSpace(out) != "true" {
		return fmt.Errorf("%s: %w", c.workTree, ErrNotARepository)
	}
	return nil
}

// CurrentBranch returns the short name of the branch HEAD points to. A
// detached HEAD returns ErrNotOnBranch.
func (c *Client) CurrentBranch() (string, error) {
	return c.head()
}

func (c *Client) headFromRepository() (string, error) {
	repo, err := gogit.PlainOpenWithOptions(c.workTree, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%s: %w", c.workTree, ErrNotARepository)
		}
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	// Read HEAD without resolving it so an unborn branch still has a name.
	ref, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", ErrNotOnBranch
	}

	name := ref.Target().Short()
	if name == "" || strings.EqualFold(name, "unknown") {
		return "", fmt.Errorf("current branch is blank or unknown: %w", ErrNotOnBranch)
	}
	return name, nil
}
