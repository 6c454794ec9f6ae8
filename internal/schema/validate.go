package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// patternCache avoids recompiling field regexes on every call. Patterns are
// few (one per declared field) and fixed after startup.
var (
	patternMu    sync.RWMutex
	patternCache = map[string]*regexp.Regexp{}
)

func compilePattern(pattern string) (*regexp.Regexp, error) {
	patternMu.RLock()
	re, ok := patternCache[pattern]
	patternMu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	patternMu.Lock()
	patternCache[pattern] = re
	patternMu.Unlock()
	return re, nil
}

// Validate checks raw against the descriptor and returns the typed Input.
//
// All failures are reported, in declared-field order, followed by unknown
// keys in sorted order. A non-empty error list means the Input is zero and
// must not be used. In strict mode unknown keys are errors; otherwise they
// are dropped. The same raw map and descriptor always produce the same
// error list.
func (d Descriptor) Validate(raw map[string]any, strict bool) (Input, []FieldError) {
	var errs []FieldError
	vals := make(map[string]any, len(d.Fields))

	for _, f := range d.Fields {
		v, present := raw[f.Name]
		if !present || v == nil {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: "required"})
			}
			continue
		}

		cv, fieldErrs := f.convert(v)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		if cv != nil {
			vals[f.Name] = cv
		} else if f.Required {
			// Blank strings and all-blank lists reduce to no value.
			errs = append(errs, FieldError{Field: f.Name, Message: "required"})
		}
	}

	if strict {
		known := make(map[string]bool, len(d.Fields))
		for _, f := range d.Fields {
			known[f.Name] = true
		}
		var unknown []string
		for k := range raw {
			if !known[k] {
				unknown = append(unknown, k)
			}
		}
		sort.Strings(unknown)
		for _, k := range unknown {
			errs = append(errs, FieldError{Field: k, Message: "unknown field"})
		}
	}

	if len(errs) > 0 {
		return Input{}, errs
	}
	return Input{values: vals}, nil
}

// convert checks one present value and returns its canonical form
// (string, int, float64, bool, or []string). A nil canonical value with no
// errors means the value reduced to nothing (blank string, empty list).
func (f Field) convert(v any) (any, []FieldError) {
	fail := func(msg string) (any, []FieldError) {
		return nil, []FieldError{{Field: f.Name, Message: msg}}
	}

	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return fail("expected string, got " + typeName(v))
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		return f.checkString(s)

	case TypeInt:
		n, ok := toFloat(v)
		if !ok {
			return fail("expected integer, got " + typeName(v))
		}
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return fail("expected integer, got number")
		}
		if msg := f.checkRange(n, "must be"); msg != "" {
			return fail(msg)
		}
		return int(n), nil

	case TypeNumber:
		n, ok := toFloat(v)
		if !ok {
			return fail("expected number, got " + typeName(v))
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fail("must be a finite number")
		}
		if msg := f.checkRange(n, "must be"); msg != "" {
			return fail(msg)
		}
		return n, nil

	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return fail("expected boolean, got " + typeName(v))
		}
		return b, nil

	case TypeStringList:
		items, msg := toStringList(v)
		if msg != "" {
			return fail(msg)
		}
		if len(items) == 0 {
			return nil, nil
		}
		return f.checkList(items)
	}

	// Unreachable for descriptors that passed Check.
	return fail("unsupported field type")
}

// checkString applies enum, pattern, and length constraints. Collects every
// violation rather than the first.
func (f Field) checkString(s string) (any, []FieldError) {
	var errs []FieldError

	if len(f.Enum) > 0 && !containsString(f.Enum, s) {
		errs = append(errs, FieldError{
			Field:   f.Name,
			Message: "must be one of: " + strings.Join(f.Enum, ", "),
		})
	}
	if f.Pattern != "" {
		if re, err := compilePattern(f.Pattern); err == nil && !re.MatchString(s) {
			errs = append(errs, FieldError{
				Field:   f.Name,
				Message: "must match " + f.Pattern,
			})
		}
	}
	n := utf8.RuneCountInString(s)
	if f.Min != nil && float64(n) < *f.Min {
		errs = append(errs, FieldError{
			Field:   f.Name,
			Message: fmt.Sprintf("must be at least %s characters", formatBound(*f.Min)),
		})
	}
	if f.Max != nil && float64(n) > *f.Max {
		errs = append(errs, FieldError{
			Field:   f.Name,
			Message: fmt.Sprintf("must be at most %s characters", formatBound(*f.Max)),
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

// checkList trims items, drops blanks, validates per-item pattern-free
// constraints and item-count bounds.
func (f Field) checkList(items []string) (any, []FieldError) {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}

	var errs []FieldError
	if f.Min != nil && float64(len(kept)) < *f.Min {
		errs = append(errs, FieldError{
			Field:   f.Name,
			Message: fmt.Sprintf("must have at least %s items", formatBound(*f.Min)),
		})
	}
	if f.Max != nil && float64(len(kept)) > *f.Max {
		errs = append(errs, FieldError{
			Field:   f.Name,
			Message: fmt.Sprintf("must have at most %s items", formatBound(*f.Max)),
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return kept, nil
}

// checkRange returns a violation message for numeric bounds, or "".
func (f Field) checkRange(n float64, verb string) string {
	if f.Min != nil && n < *f.Min {
		return fmt.Sprintf("%s >= %s", verb, formatBound(*f.Min))
	}
	if f.Max != nil && n > *f.Max {
		return fmt.Sprintf("%s <= %s", verb, formatBound(*f.Max))
	}
	return ""
}

// toFloat widens the numeric types a JSON decoder or a direct Go caller
// can hand us.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// toStringList accepts []string or []any of strings. Returns a failure
// message when the value is not a list of strings.
func toStringList(v any) ([]string, string) {
	switch list := v.(type) {
	case []string:
		return list, ""
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, "expected list of strings, got list containing " + typeName(item)
			}
			out = append(out, s)
		}
		return out, ""
	}
	return nil, "expected list of strings, got " + typeName(v)
}

// typeName names a dynamic value the way the wire format would.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// formatBound renders a bound without a trailing ".000000".
func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Ptr returns a pointer to v. Keeps Field literals short when declaring
// bounds.
func Ptr(v float64) *float64 { return &v }
