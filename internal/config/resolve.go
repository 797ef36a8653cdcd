package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
)

const (
	appName        = "mkgitbranch"
	fileName       = "mkgitbranch.toml"
	homeFileName   = ".mkgitbranch.toml"
	pyprojectName  = "pyproject.toml"
	explicitEnvVar = "MKGITBRANCH_CONFIG"

	typePatternEnvVar = "MKGITBRANCH_REGEX_TYPE"
)

// SourceKind names one of the candidate configuration locations.
type SourceKind string

// Candidate locations in precedence order.
const (
	SourceExplicit   SourceKind = "explicit"
	SourcePyproject  SourceKind = "pyproject"
	SourceXDG        SourceKind = "xdg"
	SourceUserConfig SourceKind = "user-config"
	SourceHome       SourceKind = "home"
	SourceDefaults   SourceKind = "defaults"
)

// Source identifies where the active configuration came from.
type Source struct {
	Kind SourceKind
	Path string
}

func (s Source) String() string {
	if s.Path == "" {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s (%s)", s.Path, s.Kind)
}

// Loaded is the result of Resolve.
type Loaded struct {
	Config   Config
	Source   Source
	Warnings []string
}

// Resolver locates the configuration file. Zero-value fields fall back to
// the process environment, working directory and OS directories; tests set
// them explicitly.
type Resolver struct {
	// WorkDir is where the upward pyproject.toml search starts.
	WorkDir string
	// ExplicitPath comes from --config and wins over MKGITBRANCH_CONFIG.
	ExplicitPath string
	// Env replaces the process environment when non-nil.
	Env map[string]string

	HomeDir       func() (string, error)
	UserConfigDir func() (string, error)

	Logger *logger.Logger
}

// Resolve runs a Resolver built from the process environment.
func Resolve(workDir, explicitPath string, log *logger.Logger) (*Loaded, error) {
	r := &Resolver{WorkDir: workDir, ExplicitPath: explicitPath, Logger: log}
	return r.Resolve()
}

// Resolve returns the first candidate that exists, merged over the defaults.
// A located but unusable file yields a *ConfigError together with a usable
// Loaded: keys that could not be decoded keep their defaults, and a file that
// is not valid TOML at all falls back to the defaults entirely.
func (r *Resolver) Resolve() (*Loaded, error) {
	log := r.Logger.Named("config")
	pyprojectDone := false

	for _, c := range r.Candidates() {
		if pyprojectDone && c.Kind == SourcePyproject {
			continue
		}
		log.Debug().Str("kind", string(c.Kind)).Str("path", c.Path).Msg("checking for config file")

		partial, res, err := r.read(c)
		if err != nil && res != lookupFound {
			log.Error().Err(err).Str("path", c.Path).Msg("config file unusable, falling back to defaults")
			loaded, envErr := r.finish(Config{}, Source{Kind: SourceDefaults})
			return loaded, errors.Join(err, envErr)
		}

		switch res {
		case lookupMissing:
			continue
		case lookupNoTable:
			// The nearest project file without our table ends the upward search.
			pyprojectDone = true
			continue
		}

		if err != nil {
			log.Error().Err(err).Str("path", c.Path).Msg("ignoring keys that could not be decoded")
		}
		log.Debug().Str("path", c.Path).Msg("using config file")
		loaded, finishErr := r.finish(partial, c)
		return loaded, errors.Join(err, finishErr)
	}

	log.Debug().Msg("no config file found, using defaults")
	return r.finish(Config{}, Source{Kind: SourceDefaults})
}

// Candidates lists the locations Resolve checks, in order. The pyproject
// entries run from the working directory up to the filesystem root.
func (r *Resolver) Candidates() []Source {
	environ := r.environment()
	var out []Source

	explicit := r.ExplicitPath
	if explicit == "" {
		explicit = environ[explicitEnvVar]
	}
	if explicit != "" {
		out = append(out, Source{Kind: SourceExplicit, Path: r.expandHome(explicit)})
	}

	for _, dir := range ancestors(r.workDir()) {
		out = append(out, Source{Kind: SourcePyproject, Path: filepath.Join(dir, pyprojectName)})
	}

	if xdg := environ["XDG_CONFIG_HOME"]; xdg != "" {
		out = append(out, Source{Kind: SourceXDG, Path: filepath.Join(r.expandHome(xdg), appName, fileName)})
	}

	userConfigDir := r.UserConfigDir
	if userConfigDir == nil {
		userConfigDir = os.UserConfigDir
	}
	if dir, err := userConfigDir(); err == nil && dir != "" {
		out = append(out, Source{Kind: SourceUserConfig, Path: filepath.Join(dir, appName, fileName)})
	}

	if home, err := r.homeDir(); err == nil && home != "" {
		out = append(out, Source{Kind: SourceHome, Path: filepath.Join(home, homeFileName)})
	}

	return dedupe(out)
}

type lookup int

const (
	lookupMissing lookup = iota
	lookupFound
	// lookupNoTable is a pyproject.toml with a [tool] table but no
	// [tool.mkgitbranch] entry.
	lookupNoTable
)

// read loads one candidate. A decode error that only affects some keys comes
// back with lookupFound and the keys that did decode.
func (r *Resolver) read(c Source) (Config, lookup, error) {
	if c.Kind == SourceExplicit && isDir(c.Path) {
		return Config{}, lookupMissing, &ConfigError{Path: c.Path, Err: fmt.Errorf("%w: path is a directory", ErrExplicitNotFound)}
	}

	data, err := os.ReadFile(c.Path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		if c.Kind == SourceExplicit {
			return Config{}, lookupMissing, &ConfigError{Path: c.Path, Err: ErrExplicitNotFound}
		}
		return Config{}, lookupMissing, nil
	case isDir(c.Path):
		return Config{}, lookupMissing, nil
	default:
		return Config{}, lookupMissing, &ConfigError{Path: c.Path, Err: err}
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Config{}, lookupMissing, &ConfigError{Path: c.Path, Err: err}
	}

	table := doc
	if c.Kind == SourcePyproject {
		tool, ok := doc["tool"].(map[string]any)
		if !ok {
			r.Logger.Named("config").Debug().Str("path", c.Path).Msg("no [tool] table")
			return Config{}, lookupMissing, nil
		}
		table, ok = tool[appName].(map[string]any)
		if !ok {
			r.Logger.Named("config").Debug().Str("path", c.Path).Msg("no [tool.mkgitbranch] table")
			return Config{}, lookupNoTable, nil
		}
	}

	cfg, err := decode(table)
	if err != nil {
		return cfg, lookupFound, &ConfigError{Path: c.Path, Err: err}
	}
	return cfg, lookupFound, nil
}

// finish merges defaults, applies environment overrides and resets invalid
// fields. Unless a type pattern was configured, it is derived from the final
// branch type list.
func (r *Resolver) finish(partial Config, src Source) (*Loaded, error) {
	log := r.Logger.Named("config")
	environ := r.environment()

	base, err := Merge(partial)
	if err != nil {
		return &Loaded{Config: Defaults(), Source: Source{Kind: SourceDefaults}}, &ConfigError{Path: src.Path, Err: err}
	}

	cfg := base.clone()
	var envErr error
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		envErr = &ConfigError{Path: "environment", Err: err}
		log.Error().Err(err).Msg("ignoring MKGITBRANCH_* overrides")
		cfg = base
	}

	warnings := sanitize(&cfg)
	if partial.Regex.Type == "" && environ[typePatternEnvVar] == "" {
		cfg.Regex.Type = typesPattern(cfg.BranchTypes)
	}
	for _, w := range warnings {
		log.Warn().Str("source", src.String()).Msg(w)
	}

	return &Loaded{Config: cfg, Source: src, Warnings: warnings}, envErr
}

func (r *Resolver) environment() map[string]string {
	if r.Env != nil {
		return r.Env
	}
	return env.ToMap(os.Environ())
}

func (r *Resolver) workDir() string {
	dir := r.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	abs, err := filepath.Abs(r.expandHome(dir))
	if err != nil {
		return dir
	}
	return abs
}

func (r *Resolver) homeDir() (string, error) {
	if r.HomeDir != nil {
		return r.HomeDir()
	}
	return os.UserHomeDir()
}

func (r *Resolver) expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := r.homeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ancestors returns dir and each of its parents up to the root.
func ancestors(dir string) []string {
	if dir == "" {
		return nil
	}
	var out []string
	for {
		out = append(out, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			return out
		}
		dir = parent
	}
}

func dedupe(sources []Source) []Source {
	seen := make(map[string]bool, len(sources))
	out := sources[:0]
	for _, s := range sources {
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true
		out = append(out, s)
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
