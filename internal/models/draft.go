package models

import "strings"

// Field is one of the four editable parts of a branch name.
type Field int

const (
	FieldUsername Field = iota
	FieldType
	FieldJira
	FieldDescription
)

// Fields lists every field in form order.
var Fields = []Field{FieldUsername, FieldType, FieldJira, FieldDescription}

func (f Field) String() string {
	switch f {
	case FieldUsername:
		return "username"
	case FieldType:
		return "type"
	case FieldJira:
		return "jira"
	case FieldDescription:
		return "description"
	}
	return "unknown"
}

// Label is the caption shown under the input.
func (f Field) Label() string {
	switch f {
	case FieldUsername:
		return "Username"
	case FieldType:
		return "Type"
	case FieldJira:
		return "JIRA Issue"
	case FieldDescription:
		return "Description"
	}
	return ""
}

// Placeholder returns the template token for the field, e.g. "{jira}".
func (f Field) Placeholder() string {
	return "{" + f.String() + "}"
}

// Status is the validation state of one field.
type Status int

const (
	StatusEmpty Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	}
	return "empty"
}

// Draft is the in-progress set of field values before a branch is created.
type Draft struct {
	Values   [4]string
	Statuses [4]Status
}

// Set stores a value and its status.
func (d *Draft) Set(f Field, value string, status Status) {
	d.Values[f] = value
	d.Statuses[f] = status
}

// Value returns the current value of f.
func (d Draft) Value(f Field) string {
	return d.Values[f]
}

// Status returns the current status of f.
func (d Draft) Status(f Field) Status {
	return d.Statuses[f]
}

// Complete reports whether every field is valid.
func (d Draft) Complete() bool {
	for _, s := range d.Statuses {
		if s != StatusValid {
			return false
		}
	}
	return true
}

// Format renders the draft through template, substituting every placeholder.
func (d Draft) Format(template string) string {
	return d.render(template, func(Field) bool { return true })
}

// Preview renders only the valid fields. Segments left empty by invalid or
// missing fields are dropped so the result has no doubled or dangling slashes.
func (d Draft) Preview(template string) string {
	out := d.render(template, func(f Field) bool { return d.Statuses[f] == StatusValid })

	parts := strings.Split(out, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

func (d Draft) render(template string, include func(Field) bool) string {
	pairs := make([]string, 0, 2*len(Fields))
	for _, f := range Fields {
		v := ""
		if include(f) {
			v = d.Values[f]
		}
		pairs = append(pairs, f.Placeholder(), v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
