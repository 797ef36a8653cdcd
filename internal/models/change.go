// Package models holds the plain data types shared by the git and ui packages.
package models

// ChangeKind is one column of a `git status --porcelain` entry.
type ChangeKind byte

const (
	Unchanged ChangeKind = ' '
	Modified  ChangeKind = 'M'
	Added     ChangeKind = 'A'
	Deleted   ChangeKind = 'D'
	Renamed   ChangeKind = 'R'
	Copied    ChangeKind = 'C'
	Unmerged  ChangeKind = 'U'
	Untracked ChangeKind = '?'
)

// PathChange is one uncommitted path. The dirty-tree guard lists them so the
// user can see what blocks branching.
type PathChange struct {
	Path     string
	Staged   ChangeKind
	Unstaged ChangeKind
}

// IsUntracked reports a path git does not know about yet.
func (c PathChange) IsUntracked() bool {
	return c.Staged == Untracked
}

// IsStaged reports whether the index differs from HEAD for this path.
func (c PathChange) IsStaged() bool {
	return c.Staged != Unchanged && !c.IsUntracked()
}

// IsConflicted reports an unmerged path.
func (c PathChange) IsConflicted() bool {
	return c.Staged == Unmerged || c.Unstaged == Unmerged
}

// String renders the change the way `git status --short` does.
func (c PathChange) String() string {
	return string([]byte{byte(c.Staged), byte(c.Unstaged)}) + " " + c.Path
}
