// Package config resolves the mkgitbranch settings.
//
// Settings come from the first configuration file found in a fixed list of
// locations, merged over built-in defaults, then overridden by MKGITBRANCH_*
// environment variables.
package config

import (
	"slices"
	"time"
)

// Cursor start positions accepted by cursor_start.
const (
	CursorUsername      = "username"
	CursorJiraStart     = "jira_start"
	CursorJiraAfterDash = "jira_after_dash"
	CursorDescription   = "description"
)

// BranchNameToken is replaced with the finished branch name in
// branch_create_command_template.
const BranchNameToken = "{branch_name}"

const (
	defaultTimeoutMinutes = 10
	defaultCreateCommand  = `git switch --quiet --create "{branch_name}"`
	defaultBranchFormat   = "{username}/{type}/{jira}/{description}"
)

// Config is the effective configuration for one session. It is not modified
// after Resolve returns.
type Config struct {
	Username                    string   `toml:"username" env:"MKGITBRANCH_USERNAME" validate:"omitempty,max=32"`
	UsernameReadonly            bool     `toml:"username_readonly" env:"MKGITBRANCH_USERNAME_READONLY"`
	JiraPrefix                  string   `toml:"jira_prefix" env:"MKGITBRANCH_JIRA_PREFIX" validate:"omitempty,max=32"`
	TimeoutMinutes              *int     `toml:"timeout_minutes" env:"MKGITBRANCH_TIMEOUT_MINUTES" validate:"omitempty,gte=0"`
	CursorStart                 string   `toml:"cursor_start" env:"MKGITBRANCH_CURSOR_START" validate:"oneof=username jira_start jira_after_dash description"`
	BranchCreateCommandTemplate string   `toml:"branch_create_command_template" env:"MKGITBRANCH_BRANCH_CREATE_COMMAND_TEMPLATE" validate:"required,contains={branch_name}"`
	BranchFormat                string   `toml:"branch_format" env:"MKGITBRANCH_BRANCH_FORMAT" validate:"required,contains={description}"`
	BranchTypes                 []string `toml:"branch_types" env:"MKGITBRANCH_BRANCH_TYPES" validate:"min=1,dive,required,excludesall=/"`
	AllowDirty                  bool     `toml:"allow_dirty" env:"MKGITBRANCH_ALLOW_DIRTY"`
	ForbiddenSourceBranches     []string `toml:"forbidden_source_branches" env:"MKGITBRANCH_FORBIDDEN_SOURCE_BRANCHES"`

	Regex       Patterns    `toml:"regex"`
	FieldWidths FieldWidths `toml:"field_widths"`
	Theme       Theme       `toml:"theme"`
}

// Patterns holds the validation regular expression of each field.
type Patterns struct {
	Username    string `toml:"username" env:"MKGITBRANCH_REGEX_USERNAME" validate:"required,regexp"`
	Type        string `toml:"type" env:"MKGITBRANCH_REGEX_TYPE" validate:"required,regexp"`
	Jira        string `toml:"jira" env:"MKGITBRANCH_REGEX_JIRA" validate:"required,regexp"`
	Description string `toml:"description" env:"MKGITBRANCH_REGEX_DESCRIPTION" validate:"required,regexp"`
}

// FieldWidths are display widths, in terminal cells, of the form inputs.
type FieldWidths struct {
	Username    int `toml:"username" validate:"gt=0,lte=200"`
	Type        int `toml:"type" validate:"gt=0,lte=200"`
	Jira        int `toml:"jira" validate:"gt=0,lte=200"`
	Description int `toml:"description" validate:"gt=0,lte=200"`
}

// Theme selects colours. DarkMode nil means detect from the terminal.
type Theme struct {
	DarkMode *bool   `toml:"dark_mode,omitempty" env:"MKGITBRANCH_DARK_MODE"`
	Light    Palette `toml:"light"`
	Dark     Palette `toml:"dark"`
}

// Palette is one set of foreground colours. Values are anything lipgloss
// accepts as a colour: "#RRGGBB" or an ANSI index.
type Palette struct {
	ErrorForeground string `toml:"error_foreground"`
	LabelForeground string `toml:"label_foreground"`
	FieldForeground string `toml:"field_foreground"`
}

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() Config {
	timeout := defaultTimeoutMinutes
	return Config{
		TimeoutMinutes:              &timeout,
		CursorStart:                 CursorDescription,
		BranchCreateCommandTemplate: defaultCreateCommand,
		BranchFormat:                defaultBranchFormat,
		BranchTypes:                 []string{"feat", "fix", "chore", "test", "refactor", "hotfix"},
		Regex: Patterns{
			Username:    `^[a-zA-Z0-9_-]{2,7}$`,
			Type:        `^(feat|fix|chore|test|refactor|hotfix)$`,
			Jira:        `^[A-Z]{2,6}-[1-9][0-9]{0,4}$`,
			Description: `^[a-z][a-z0-9-]{0,30}$`,
		},
		FieldWidths: FieldWidths{
			Username:    12,
			Type:        10,
			Jira:        12,
			Description: 32,
		},
		Theme: Theme{
			Light: Palette{
				ErrorForeground: "#EE4B2B",
				LabelForeground: "#222222",
				FieldForeground: "#000000",
			},
			Dark: Palette{
				ErrorForeground: "#EE4B2B",
				LabelForeground: "#cccccc",
				FieldForeground: "#ffffff",
			},
		},
	}
}

// Timeout is the inactivity timeout. Zero disables it.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMinutes == nil || *c.TimeoutMinutes <= 0 {
		return 0
	}
	return time.Duration(*c.TimeoutMinutes) * time.Minute
}

// Palette returns the colours for the given mode.
func (t Theme) Palette(dark bool) Palette {
	if dark {
		return t.Dark
	}
	return t.Light
}

// clone returns a copy that shares no pointers or slices with c.
func (c Config) clone() Config {
	out := c
	if c.TimeoutMinutes != nil {
		v := *c.TimeoutMinutes
		out.TimeoutMinutes = &v
	}
	if c.Theme.DarkMode != nil {
		v := *c.Theme.DarkMode
		out.Theme.DarkMode = &v
	}
	out.BranchTypes = slices.Clone(c.BranchTypes)
	out.ForbiddenSourceBranches = slices.Clone(c.ForbiddenSourceBranches)
	return out
}
