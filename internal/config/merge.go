package config

import (
	"fmt"
	"regexp"
	"strings"

	"dario.cat/mergo"
)

// Merge fills every field left unset in partial with its built-in default.
// Set fields are never overwritten. Pointer fields are compared by presence,
// so an explicit timeout_minutes = 0 survives the merge.
func Merge(partial Config) (Config, error) {
	// A custom type list without a custom type pattern should still validate.
	if partial.Regex.Type == "" && len(partial.BranchTypes) > 0 {
		partial.Regex.Type = typesPattern(partial.BranchTypes)
	}

	if err := mergo.Merge(&partial, Defaults(), mergo.WithoutDereference); err != nil {
		return Defaults(), fmt.Errorf("error merging config with defaults: %w", err)
	}
	return partial, nil
}

func typesPattern(types []string) string {
	quoted := make([]string, 0, len(types))
	for _, t := range types {
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	return "^(" + strings.Join(quoted, "|") + ")$"
}
