package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const workTreeEnv = "GIT_WORK_TREE"

// DetermineWorkTree picks the directory git operations run in:
//  1. GIT_WORK_TREE from environ, left untouched;
//  2. dirArg, which must be a directory and is exported as GIT_WORK_TREE;
//  3. the current working directory.
//
// It returns the work tree and the environment commands should run with.
func DetermineWorkTree(dirArg string, environ []string) (string, []string, error) {
	if wt := lookup(environ, workTreeEnv); wt != "" {
		return wt, environ, nil
	}

	if dirArg != "" {
		abs, err := filepath.Abs(expandHome(dirArg))
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", dirArg, err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", nil, fmt.Errorf("%s: %w", dirArg, ErrNotADirectory)
		}
		env := append(withoutKey(environ, workTreeEnv), workTreeEnv+"="+abs)
		return abs, env, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, environ, nil
}

func lookup(environ []string, key string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}

func withoutKey(environ []string, key string) []string {
	out := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if k, _, _ := strings.Cut(kv, "="); k != key {
			out = append(out, kv)
		}
	}
	return out
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
