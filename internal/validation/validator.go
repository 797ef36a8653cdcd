// Package validation checks branch-name fields against their patterns.
package validation

import (
	"regexp"
	"slices"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
)

// Validator holds one compiled pattern per field. It is immutable and safe to
// share.
type Validator struct {
	patterns [4]*regexp.Regexp
	types    []string
}

// New compiles the configured patterns. A pattern that does not compile is
// logged and replaced by the built-in default for that field.
func New(p config.Patterns, types []string, log *logger.Logger) *Validator {
	def := config.Defaults().Regex
	given := [4]string{p.Username, p.Type, p.Jira, p.Description}
	fallback := [4]string{def.Username, def.Type, def.Jira, def.Description}

	v := &Validator{types: slices.Clone(types)}
	for _, f := range models.Fields {
		re, err := compileFull(given[f])
		if err != nil || given[f] == "" {
			if err != nil {
				log.Named("validation").Error().Err(err).
					Str("field", f.String()).Str("pattern", given[f]).
					Msg("invalid regex, using default")
			}
			re = regexp.MustCompile(anchor(fallback[f]))
		}
		v.patterns[f] = re
	}
	return v
}

// FromConfig builds a Validator from a resolved configuration.
func FromConfig(cfg config.Config, log *logger.Logger) *Validator {
	return New(cfg.Regex, cfg.BranchTypes, log)
}

// Check reports whether value is empty, fully matches the field pattern, or
// does not. It has no side effects.
func (v *Validator) Check(f models.Field, value string) models.Status {
	if value == "" {
		return models.StatusEmpty
	}
	if v.patterns[f].MatchString(value) {
		return models.StatusValid
	}
	return models.StatusInvalid
}

// Set checks value and stores it in d.
func (v *Validator) Set(d *models.Draft, f models.Field, value string) models.Status {
	s := v.Check(f, value)
	d.Set(f, value, s)
	return s
}

// Types returns the configured branch types.
func (v *Validator) Types() []string {
	return v.types
}

// IsType reports whether t is one of the configured branch types.
func (v *Validator) IsType(t string) bool {
	return slices.Contains(v.types, t)
}

func compileFull(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(anchor(pattern))
}

// anchor makes a pattern match the whole input, the way the configured
// patterns are written to be read.
func anchor(pattern string) string {
	return `^(?:` + pattern + `)$`
}
