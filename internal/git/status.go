package git

import (
	"bufio"
	"context"
	"strings"

	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
)

// parseStatus reads `git status --porcelain=v1` output. Each line is "XY PATH"
// where X is the index column and Y the working tree column.
func parseStatus(output string) []models.PathChange {
	var changes []models.PathChange
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}

		c := models.PathChange{
			Path:     strings.TrimSpace(line[3:]),
			Staged:   kind(line[0]),
			Unstaged: kind(line[1]),
		}
		// Renames and copies are reported as "old -> new".
		if c.Staged == models.Renamed || c.Staged == models.Copied {
			if _, newPath, ok := strings.Cut(c.Path, " -> "); ok {
				c.Path = newPath
			}
		}
		changes = append(changes, c)
	}

	return changes
}

func kind(b byte) models.ChangeKind {
	switch k := models.ChangeKind(b); k {
	case models.Modified, models.Added, models.Deleted, models.Renamed,
		models.Copied, models.Unmerged, models.Untracked:
		return k
	}
	return models.Unchanged
}

// DirtyFiles returns every uncommitted change in the working tree.
func (c *Client) DirtyFiles(ctx context.Context) ([]models.PathChange, error) {
	out, err := c.runner.Run(ctx, "git", "status", "--porcelain=v1")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}
