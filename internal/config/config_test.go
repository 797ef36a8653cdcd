package config

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_PartialKeepsDefaultsForUnsetFields(t *testing.T) {
	t.Parallel()

	var partial Config
	require.NoError(t, toml.Unmarshal([]byte(`
username = "alice"
jira_prefix = "OPS-"

[regex]
username = "^[a-z]{2,10}$"

[theme.dark]
error_foreground = "#ff0000"
`), &partial))

	cfg, err := Merge(partial)
	require.NoError(t, err)

	def := Defaults()
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "OPS-", cfg.JiraPrefix)
	assert.Equal(t, "^[a-z]{2,10}$", cfg.Regex.Username)
	assert.Equal(t, def.Regex.Type, cfg.Regex.Type)
	assert.Equal(t, def.Regex.Jira, cfg.Regex.Jira)
	assert.Equal(t, def.Regex.Description, cfg.Regex.Description)
	assert.Equal(t, def.BranchTypes, cfg.BranchTypes)
	assert.Equal(t, def.CursorStart, cfg.CursorStart)
	assert.Equal(t, def.FieldWidths, cfg.FieldWidths)
	assert.Equal(t, "#ff0000", cfg.Theme.Dark.ErrorForeground)
	assert.Equal(t, def.Theme.Dark.LabelForeground, cfg.Theme.Dark.LabelForeground)
	assert.Equal(t, def.Theme.Light, cfg.Theme.Light)
	assert.Nil(t, cfg.Theme.DarkMode)
	assert.Equal(t, 10*time.Minute, cfg.Timeout())
}

func TestMerge_ExplicitZeroTimeoutSurvives(t *testing.T) {
	t.Parallel()

	var partial Config
	require.NoError(t, toml.Unmarshal([]byte("timeout_minutes = 0\n"), &partial))

	cfg, err := Merge(partial)
	require.NoError(t, err)
	require.NotNil(t, cfg.TimeoutMinutes)
	assert.Equal(t, 0, *cfg.TimeoutMinutes)
	assert.Zero(t, cfg.Timeout())
}

func TestMerge_DoesNotAliasDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Merge(Config{})
	require.NoError(t, err)
	cfg.BranchTypes[0] = "mutated"
	*cfg.TimeoutMinutes = 99

	def := Defaults()
	assert.Equal(t, "feat", def.BranchTypes[0])
	assert.Equal(t, 10, *def.TimeoutMinutes)
}

func TestMerge_DarkModeExplicitFalse(t *testing.T) {
	t.Parallel()

	var partial Config
	require.NoError(t, toml.Unmarshal([]byte("[theme]\ndark_mode = false\n"), &partial))

	cfg, err := Merge(partial)
	require.NoError(t, err)
	require.NotNil(t, cfg.Theme.DarkMode)
	assert.False(t, *cfg.Theme.DarkMode)
}

func TestTypesPattern_QuotesMeta(t *testing.T) {
	assert.Equal(t, `^(feat|docs\.x)$`, typesPattern([]string{"feat", "docs.x"}))
}

func TestSanitize_DropsBadListElements(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.BranchTypes = []string{"feat", "bad/type", "fix", ""}
	cfg.ForbiddenSourceBranches = []string{"main", "("}

	warnings := sanitize(&cfg)
	require.Len(t, warnings, 2)
	assert.Equal(t, []string{"feat", "fix"}, cfg.BranchTypes)
	assert.Equal(t, []string{"main", "("}, cfg.ForbiddenSourceBranches)
	assert.Contains(t, warnings[0], "branch_types[")
	assert.Contains(t, warnings[0], "dropped")
}

func TestSanitize_EmptiedListFallsBackToDefault(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.BranchTypes = []string{"a/b"}

	warnings := sanitize(&cfg)
	assert.Len(t, warnings, 2)
	assert.Equal(t, Defaults().BranchTypes, cfg.BranchTypes)
	assert.Contains(t, warnings[1], "using default")
}

func TestClone_SharesNothing(t *testing.T) {
	t.Parallel()

	dark := true
	cfg := Defaults()
	cfg.Theme.DarkMode = &dark
	cfg.ForbiddenSourceBranches = []string{"main"}

	c := cfg.clone()
	*c.TimeoutMinutes = 99
	*c.Theme.DarkMode = false
	c.BranchTypes[0] = "changed"
	c.ForbiddenSourceBranches[0] = "changed"

	assert.Equal(t, 10, *cfg.TimeoutMinutes)
	assert.True(t, *cfg.Theme.DarkMode)
	assert.Equal(t, "feat", cfg.BranchTypes[0])
	assert.Equal(t, "main", cfg.ForbiddenSourceBranches[0])
}

func TestSanitize_DefaultsAreValid(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Empty(t, sanitize(&cfg))
}

func TestTheme_Palette(t *testing.T) {
	theme := Defaults().Theme
	assert.Equal(t, "#ffffff", theme.Palette(true).FieldForeground)
	assert.Equal(t, "#000000", theme.Palette(false).FieldForeground)
}
