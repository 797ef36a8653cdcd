package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Patterns are compiled later by the field validator; reject the ones
	// that cannot compile here so the default takes their place.
	_ = v.RegisterValidation("regexp", func(fl validator.FieldLevel) bool {
		_, err := regexp.Compile(fl.Field().String())
		return err == nil
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// sanitize repairs cfg in place and returns one warning per repair. A bad
// list element is dropped from its list; any other failing field, including
// a list left empty by those drops, is reset to its default.
func sanitize(cfg *Config) []string {
	warnings, drops := check(cfg, true)
	if len(drops) == 0 {
		return warnings
	}

	root := reflect.ValueOf(cfg).Elem()
	for field, idx := range drops {
		dropElements(root, strings.Split(field, "."), idx)
	}
	more, _ := check(cfg, false)
	return append(warnings, more...)
}

// check validates cfg and resets failing fields to their defaults. With
// perElement set, failing list elements are collected by field path instead
// of resetting the list.
func check(cfg *Config, perElement bool) ([]string, map[string]map[int]bool) {
	err := validate.Struct(cfg)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}, nil
	}

	defaults := reflect.ValueOf(Defaults())
	drops := map[string]map[int]bool{}
	var warnings []string
	for _, fe := range verrs {
		path := strings.Split(fe.StructNamespace(), ".")[1:]

		if field, idx, ok := listElement(path); ok && perElement {
			if drops[field] == nil {
				drops[field] = map[int]bool{}
			}
			drops[field][idx] = true
			warnings = append(warnings, fmt.Sprintf("%s: invalid value %v (rule %q), dropped",
				tomlKey(fe.Namespace()), fe.Value(), fe.Tag()))
			continue
		}

		resetField(reflect.ValueOf(cfg).Elem(), defaults, path)
		warnings = append(warnings, fmt.Sprintf("%s: invalid value %v (rule %q), using default",
			tomlKey(fe.Namespace()), fe.Value(), fe.Tag()))
	}
	return warnings, drops
}

// listElement splits a namespace ending in "Name[i]" into the field path and
// the index.
func listElement(path []string) (string, int, bool) {
	last := path[len(path)-1]
	name, rest, indexed := strings.Cut(last, "[")
	if !indexed {
		return "", 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
	if err != nil {
		return "", 0, false
	}
	field := append(slices.Clone(path[:len(path)-1]), name)
	return strings.Join(field, "."), idx, true
}

// resetField walks path from dst and def in step and copies the default over
// the destination. A list element path resets the whole list.
func resetField(dst, def reflect.Value, path []string) {
	for _, name := range path {
		name, _, indexed := strings.Cut(name, "[")
		dst = dst.FieldByName(name)
		def = def.FieldByName(name)
		if !dst.IsValid() || !def.IsValid() {
			return
		}
		if indexed {
			break
		}
	}
	if dst.CanSet() {
		dst.Set(def)
	}
}

// dropElements removes the listed indexes from the slice field at path.
func dropElements(root reflect.Value, path []string, idx map[int]bool) {
	v := root
	for _, name := range path {
		v = v.FieldByName(name)
		if !v.IsValid() {
			return
		}
	}
	if v.Kind() != reflect.Slice || !v.CanSet() {
		return
	}

	kept := reflect.MakeSlice(v.Type(), 0, v.Len())
	for i := range v.Len() {
		if !idx[i] {
			kept = reflect.Append(kept, v.Index(i))
		}
	}
	v.Set(kept)
}

// tomlKey drops the leading struct name from a validator namespace.
func tomlKey(ns string) string {
	_, key, found := strings.Cut(ns, ".")
	if !found {
		return ns
	}
	return key
}
