package core

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Rules maps a field name to its rule tokens.
// Supported tokens: required, min:N, max:N, numeric, email,
// match:<regexp>, in:a,b,c.
type Rules map[string][]string

// Result is the outcome of running Validate.
type Result struct {
	errs []FieldError
}

// Failed reports whether any rule did not pass.
func (r *Result) Failed() bool {
	return len(r.errs) > 0
}

// Errors returns the failures in field order.
func (r *Result) Errors() []FieldError {
	return append([]FieldError{}, r.errs...)
}

// Map returns field to message.
func (r *Result) Map() map[string]string {
	out := make(map[string]string, len(r.errs))
	for _, fe := range r.errs {
		out[fe.Field] = fe.Message
	}
	return out
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate runs the rule set against the attributes.
// messages overrides the default message by "field.rule" then by "field";
// names overrides the human label used in default messages.
// Fields are evaluated in sorted order and the first failing rule per field
// wins, so results are reproducible.
func Validate(attrs Attributes, rules Rules, messages, names map[string]string) *Result {
	res := &Result{}

	fields := make([]string, 0, len(rules))
	for f := range rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		label := field
		if n, ok := names[field]; ok {
			label = n
		}
		for _, token := range rules[field] {
			rule, arg, _ := strings.Cut(token, ":")
			if msg := check(attrs[field], rule, arg, label); msg != "" {
				if m, ok := messages[field+"."+rule]; ok {
					msg = m
				} else if m, ok := messages[field]; ok {
					msg = m
				}
				res.errs = append(res.errs, FieldError{Field: field, Message: msg})
				break
			}
		}
	}
	return res
}

// check returns "" on pass, or the default failure message.
func check(value any, rule, arg, label string) string {
	switch rule {
	case "required":
		if isEmpty(value) {
			return fmt.Sprintf("%s is required", label)
		}
	case "min":
		n, _ := strconv.Atoi(arg)
		if s, ok := stringValue(value); ok && len(s) < n {
			return fmt.Sprintf("%s must be at least %d characters", label, n)
		}
	case "max":
		n, _ := strconv.Atoi(arg)
		if s, ok := stringValue(value); ok && len(s) > n {
			return fmt.Sprintf("%s must be at most %d characters", label, n)
		}
	case "numeric":
		if isEmpty(value) {
			return ""
		}
		if s, ok := stringValue(value); ok {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				return fmt.Sprintf("%s must be numeric", label)
			}
		}
	case "email":
		if s, ok := stringValue(value); ok && s != "" && !emailPattern.MatchString(s) {
			return fmt.Sprintf("%s must be a valid email address", label)
		}
	case "match":
		re, err := regexp.Compile(arg)
		if err != nil {
			return fmt.Sprintf("%s has an invalid pattern rule", label)
		}
		if s, ok := stringValue(value); ok && s != "" && !re.MatchString(s) {
			return fmt.Sprintf("%s has an invalid format", label)
		}
	case "in":
		if isEmpty(value) {
			return ""
		}
		s, _ := stringValue(value)
		for _, opt := range strings.Split(arg, ",") {
			if s == opt {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", label, arg)
	}
	return ""
}

// isEmpty reports whether the value counts as unset: nil or blank string.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// stringValue converts scalars to their string form for length and pattern
// rules. Composite values are skipped (ok=false).
func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case int, int32, int64, uint, uint32, uint64, float32, float64, bool:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
