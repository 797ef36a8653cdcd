package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
	"github.com/Johannes-Berggren/mkgitbranch/internal/validation"
)

type call struct {
	name string
	args []string
}

// fakeRunner records calls and answers from a table keyed by the joined argv.
type fakeRunner struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
	onRun   func(name string, args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.onRun != nil {
		f.onRun(name, args)
	}
	key := strings.Join(append([]string{name}, args...), " ")
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func newTestClient(r Runner, head func() (string, error)) *Client {
	return &Client{workTree: "/repo", runner: r, head: head, logger: logger.Nop()}
}

func TestParseStatus(t *testing.T) {
	out := " M file.py\nA  added.go\nR  old.go -> new.go\n?? notes.txt\nUU conflict.go\n"

	changes := parseStatus(out)
	require.Len(t, changes, 5)

	assert.Equal(t, "file.py", changes[0].Path)
	assert.Equal(t, models.Modified, changes[0].Unstaged)
	assert.False(t, changes[0].IsStaged())

	assert.Equal(t, models.Added, changes[1].Staged)
	assert.True(t, changes[1].IsStaged())

	assert.Equal(t, "new.go", changes[2].Path)
	assert.Equal(t, models.Renamed, changes[2].Staged)

	assert.True(t, changes[3].IsUntracked())
	assert.False(t, changes[3].IsStaged())
	assert.Equal(t, "?? notes.txt", changes[3].String())

	assert.True(t, changes[4].IsConflicted())
	assert.Equal(t, "UU conflict.go", changes[4].String())
}

func TestBuildCommand(t *testing.T) {
	argv, err := BuildCommand(`git switch --quiet --create "{branch_name}"`, "bob/feat/ABC-1/x")
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "switch", "--quiet", "--create", "bob/feat/ABC-1/x"}, argv)

	argv, err = BuildCommand(`git checkout -b {branch_name} --track=origin/{branch_name}`, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "checkout", "-b", "b", "--track=origin/b"}, argv)

	_, err = BuildCommand(`git switch -c`, "b")
	require.Error(t, err)

	_, err = BuildCommand(`git switch -c "{branch_name}`, "b")
	require.Error(t, err)

	_, err = BuildCommand("   ", "b")
	require.Error(t, err)
}

func TestCreateBranch_Success(t *testing.T) {
	head := "main"
	r := &fakeRunner{onRun: func(string, []string) { head = "bob/feat/ABC-1/x" }}
	c := newTestClient(r, func() (string, error) { return head, nil })

	err := c.CreateBranch(context.Background(), config.Defaults().BranchCreateCommandTemplate, "bob/feat/ABC-1/x")
	require.NoError(t, err)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "git", r.calls[0].name)
	assert.Equal(t, []string{"switch", "--quiet", "--create", "bob/feat/ABC-1/x"}, r.calls[0].args)
}

func TestCreateBranch_CommandFailure(t *testing.T) {
	cmdErr := &CommandError{Command: "git", Stderr: "fatal: a branch named 'x' already exists\n", ExitCode: 128}
	r := &fakeRunner{errs: map[string]error{"git switch --quiet --create x": cmdErr}}
	c := newTestClient(r, func() (string, error) { return "main", nil })

	err := c.CreateBranch(context.Background(), config.Defaults().BranchCreateCommandTemplate, "x")
	var got *CommandError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "fatal: a branch named 'x' already exists", got.Output())
	assert.Equal(t, 128, got.ExitCode)
}

func TestCreateBranch_NotSwitched(t *testing.T) {
	r := &fakeRunner{}
	c := newTestClient(r, func() (string, error) { return "main", nil })

	err := c.CreateBranch(context.Background(), "git branch {branch_name}", "x")
	require.ErrorIs(t, err, ErrBranchMismatch)
	assert.Contains(t, err.Error(), `current branch is "main"`)
}

func TestIsInsideWorkTree(t *testing.T) {
	ok := newTestClient(&fakeRunner{outputs: map[string]string{"git rev-parse --is-inside-work-tree": "true\n"}}, nil)
	require.NoError(t, ok.IsInsideWorkTree(context.Background()))

	bare := newTestClient(&fakeRunner{outputs: map[string]string{"git rev-parse --is-inside-work-tree": "false\n"}}, nil)
	require.ErrorIs(t, bare.IsInsideWorkTree(context.Background()), ErrNotARepository)

	failing := newTestClient(&fakeRunner{errs: map[string]error{"git rev-parse --is-inside-work-tree": errors.New("exit 128")}}, nil)
	require.ErrorIs(t, failing.IsInsideWorkTree(context.Background()), ErrNotARepository)
}

func TestGuard(t *testing.T) {
	dirty := map[string]string{"git status --porcelain=v1": " M file.py\n"}
	onMain := func() (string, error) { return "main", nil }

	t.Run("dirty tree refused", func(t *testing.T) {
		c := newTestClient(&fakeRunner{outputs: dirty}, onMain)
		err := c.Guard(context.Background(), false, nil)
		require.ErrorIs(t, err, ErrDirtyWorkTree)
		assert.Contains(t, err.Error(), "file.py")
	})

	t.Run("dirty tree allowed", func(t *testing.T) {
		r := &fakeRunner{outputs: dirty}
		c := newTestClient(r, onMain)
		require.NoError(t, c.Guard(context.Background(), true, nil))
		assert.Empty(t, r.calls)
	})

	t.Run("forbidden source", func(t *testing.T) {
		c := newTestClient(&fakeRunner{}, onMain)
		require.ErrorIs(t, c.Guard(context.Background(), false, []string{"main"}), ErrForbiddenSource)
	})

	t.Run("detached head skips source check", func(t *testing.T) {
		c := newTestClient(&fakeRunner{}, func() (string, error) { return "", ErrNotOnBranch })
		require.NoError(t, c.Guard(context.Background(), false, []string{".*"}))
	})
}

func TestCheckSource(t *testing.T) {
	require.NoError(t, CheckSource("feature/main-thing", []string{"main", "master"}))
	require.ErrorIs(t, CheckSource("release/1.2", []string{`release/.*`}), ErrForbiddenSource)
	require.ErrorIs(t, CheckSource("(", []string{"("}), ErrForbiddenSource)
	require.NoError(t, CheckSource("main", nil))
}

func TestPrefill(t *testing.T) {
	v := validation.FromConfig(config.Defaults(), nil)

	jira, typ := Prefill("alice/feat/ABC-123/desc", v)
	assert.Equal(t, "ABC-123", jira)
	assert.Equal(t, "feat", typ)

	jira, typ = Prefill("main", v)
	assert.Empty(t, jira)
	assert.Empty(t, typ)

	jira, typ = Prefill("OPS-7", v)
	assert.Equal(t, "OPS-7", jira)
	assert.Empty(t, typ)
}

func TestCurrentBranch_GoGit(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	sub := filepath.Join(dir, "pkg", "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	c := NewClient(sub, nil, logger.Nop())

	// Unborn default branch still has a name.
	name, err := c.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", name)

	branch := plumbing.NewBranchReferenceName("alice/feat/ABC-1/thing")
	require.NoError(t, repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch)))
	name, err = c.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "alice/feat/ABC-1/thing", name)

	hash := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)))
	_, err = c.CurrentBranch()
	require.ErrorIs(t, err, ErrNotOnBranch)
}

func TestCurrentBranch_NotARepository(t *testing.T) {
	c := NewClient(t.TempDir(), nil, logger.Nop())
	_, err := c.CurrentBranch()
	require.ErrorIs(t, err, ErrNotARepository)
}

func TestDetermineWorkTree(t *testing.T) {
	dir := t.TempDir()

	t.Run("GIT_WORK_TREE wins and is untouched", func(t *testing.T) {
		env := []string{"PATH=/bin", "GIT_WORK_TREE=/elsewhere"}
		wt, gotEnv, err := DetermineWorkTree(dir, env)
		require.NoError(t, err)
		assert.Equal(t, "/elsewhere", wt)
		assert.Equal(t, env, gotEnv)
	})

	t.Run("directory argument is exported", func(t *testing.T) {
		wt, gotEnv, err := DetermineWorkTree(dir, []string{"PATH=/bin"})
		require.NoError(t, err)
		assert.Equal(t, dir, wt)
		assert.Contains(t, gotEnv, "GIT_WORK_TREE="+dir)
		assert.Contains(t, gotEnv, "PATH=/bin")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, _, err := DetermineWorkTree(filepath.Join(dir, "missing"), nil)
		require.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("file is not a directory", func(t *testing.T) {
		f := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(f, nil, 0o600))
		_, _, err := DetermineWorkTree(f, nil)
		require.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("falls back to cwd", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		wt, _, err := DetermineWorkTree("", []string{"PATH=/bin"})
		require.NoError(t, err)
		assert.Equal(t, wd, wt)
	})
}

func TestCommandError_Message(t *testing.T) {
	err := &CommandError{Command: "git", Args: []string{"switch", "-c", "x"}, Stderr: "boom\n", ExitCode: 1}
	assert.Equal(t, "command failed: git switch -c x (exit 1)\nboom", err.Error())
}
