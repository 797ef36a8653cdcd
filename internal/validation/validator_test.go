package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
)

func defaultValidator() *Validator {
	return FromConfig(config.Defaults(), nil)
}

func TestCheck_Username(t *testing.T) {
	v := defaultValidator()

	tests := []struct {
		value string
		want  models.Status
	}{
		{"", models.StatusEmpty},
		{"a", models.StatusInvalid},
		{"ab", models.StatusValid},
		{"bob_d-1", models.StatusValid},
		{"abcdefg", models.StatusValid},
		{"abcdefgh", models.StatusInvalid},
		{"bo.b", models.StatusInvalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.Check(models.FieldUsername, tt.value), "username %q", tt.value)
	}
}

func TestCheck_Jira(t *testing.T) {
	v := defaultValidator()

	assert.Equal(t, models.StatusValid, v.Check(models.FieldJira, "ABC-123"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldJira, "abc-123"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldJira, "ABC-0123"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldJira, "A-1"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldJira, "ABC-123456"))
	assert.Equal(t, models.StatusEmpty, v.Check(models.FieldJira, ""))
}

func TestCheck_TypeAndDescription(t *testing.T) {
	v := defaultValidator()

	assert.Equal(t, models.StatusValid, v.Check(models.FieldType, "hotfix"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldType, "feature"))
	assert.Equal(t, models.StatusValid, v.Check(models.FieldDescription, "add-login-page"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldDescription, "1st-try"))
}

func TestCheck_UnanchoredPatternMatchesWholeValue(t *testing.T) {
	p := config.Defaults().Regex
	p.Username = "[a-z]+"
	v := New(p, nil, nil)

	assert.Equal(t, models.StatusValid, v.Check(models.FieldUsername, "bob"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldUsername, "bob1"))
}

func TestNew_InvalidPatternFallsBackToDefault(t *testing.T) {
	p := config.Defaults().Regex
	p.Jira = "([unclosed"
	v := New(p, nil, nil)

	assert.Equal(t, models.StatusValid, v.Check(models.FieldJira, "ABC-1"))
	assert.Equal(t, models.StatusInvalid, v.Check(models.FieldJira, "([unclosed"))
}

func TestSet_StoresValueAndStatus(t *testing.T) {
	v := defaultValidator()
	var d models.Draft

	s := v.Set(&d, models.FieldJira, "ABC-9")
	assert.Equal(t, models.StatusValid, s)
	assert.Equal(t, "ABC-9", d.Value(models.FieldJira))
	assert.Equal(t, models.StatusValid, d.Status(models.FieldJira))
}

func TestIsType(t *testing.T) {
	v := defaultValidator()
	assert.True(t, v.IsType("chore"))
	assert.False(t, v.IsType("docs"))
	assert.Len(t, v.Types(), 6)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "bob.d_-x", NormalizeUsername("bob.d_-x!@ "))
	assert.Len(t, NormalizeUsername("abcdefghijklmnopqrstuvwxyzabcdefghij"), 32)
	assert.Equal(t, "ABC-123", NormalizeJira("abc-1 2_3"))
	assert.Equal(t, "add-login-page", NormalizeDescription("Add Login page!"))
	assert.Equal(t, "feat", Normalize(models.FieldType, "feat"))
	assert.Equal(t, "ABC-1", Normalize(models.FieldJira, "abc-1"))
}
