// Package schema declares input contracts for draftsmith tools and
// validates untyped key-value input against them.
//
// A Descriptor lists the fields a tool accepts. Validation converts a raw
// map (as decoded from a tool call) into a typed Input exactly once; every
// failure is collected into a FieldError list instead of stopping at the
// first, so callers can fix a whole request in one round trip. Validation
// never panics and never returns a Go error — bad input is data, not an
// exception.
package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// FieldType identifies the declared type of a field.
type FieldType string

// Field types.
const (
	TypeString     FieldType = "string"
	TypeInt        FieldType = "integer"
	TypeNumber     FieldType = "number"
	TypeBool       FieldType = "boolean"
	TypeStringList FieldType = "string_list"
)

// validFieldTypes gates Descriptor.Check.
var validFieldTypes = map[FieldType]bool{
	TypeString:     true,
	TypeInt:        true,
	TypeNumber:     true,
	TypeBool:       true,
	TypeStringList: true,
}

// Field describes a single input field.
//
// Enum and Pattern apply to string fields only. Min and Max are overloaded
// by type: value bounds for numeric fields, rune-length bounds for strings,
// item-count bounds for string lists.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Description string
	Example     string
	Enum        []string
	Pattern     string
	Min         *float64
	Max         *float64
}

// Descriptor is the input contract of one tool: its fields in declared
// order. Order matters — validation reports errors in this order, and the
// exported JSON Schema lists properties in this order.
type Descriptor struct {
	Fields []Field
}

// Field returns the field with the given name.
func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Check verifies the descriptor itself is well formed. Called at tool
// registration so a malformed contract fails at startup, not per request.
func (d Descriptor) Check() error {
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return errors.New("schema: field with empty name")
		}
		if seen[f.Name] {
			return errors.Newf("schema: duplicate field %q", f.Name)
		}
		seen[f.Name] = true

		if !validFieldTypes[f.Type] {
			return errors.Newf("schema: field %q has unknown type %q", f.Name, f.Type)
		}
		if len(f.Enum) > 0 && f.Type != TypeString {
			return errors.Newf("schema: field %q: enum requires a string field", f.Name)
		}
		if f.Pattern != "" {
			if f.Type != TypeString {
				return errors.Newf("schema: field %q: pattern requires a string field", f.Name)
			}
			if _, err := compilePattern(f.Pattern); err != nil {
				return errors.Wrapf(err, "schema: field %q: bad pattern", f.Name)
			}
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return errors.Newf("schema: field %q: min %v exceeds max %v", f.Name, *f.Min, *f.Max)
		}
		if f.Type == TypeBool && (f.Min != nil || f.Max != nil) {
			return errors.Newf("schema: field %q: bounds not allowed on boolean", f.Name)
		}
	}
	return nil
}

// FieldError reports one validation failure. Field names the offending
// input key; Message is a short, stable, lower-case phrase.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Input is the typed value produced by a successful validation. Downstream
// code reads fields through the accessors and never touches the raw map.
// Absent optional fields return the caller's default.
type Input struct {
	values map[string]any
}

// Has reports whether the field carried a usable value.
func (in Input) Has(name string) bool {
	_, ok := in.values[name]
	return ok
}

// Len returns the number of populated fields.
func (in Input) Len() int { return len(in.values) }

// String returns a string field, or def when absent.
func (in Input) String(name, def string) string {
	if v, ok := in.values[name].(string); ok {
		return v
	}
	return def
}

// Int returns an integer field, or def when absent. Number fields are
// truncated toward zero.
func (in Input) Int(name string, def int) int {
	switch v := in.values[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Float returns a numeric field, or def when absent.
func (in Input) Float(name string, def float64) float64 {
	switch v := in.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Bool returns a boolean field, or def when absent.
func (in Input) Bool(name string, def bool) bool {
	if v, ok := in.values[name].(bool); ok {
		return v
	}
	return def
}

// StringList returns a list field, or nil when absent. The returned slice
// is a copy; mutating it does not affect the Input.
func (in Input) StringList(name string) []string {
	v, ok := in.values[name].([]string)
	if !ok {
		return nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}
