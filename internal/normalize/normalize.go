// Package normalize produces the canonical form of user-supplied text fields
// before they reach storage or comparison logic. All functions are pure.
package normalize

import "strings"

// Text trims surrounding whitespace. An empty result means the value is
// absent; callers treat "" accordingly.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// TextPtr normalizes an optional text field. A nil pointer stays nil; a value
// that trims down to nothing becomes nil.
func TextPtr(p *string) *string {
	if p == nil {
		return nil
	}
	t := Text(*p)
	if t == "" {
		return nil
	}
	return &t
}

// Email trims and lower-cases. Storage and uniqueness comparison always use
// this form.
func Email(s string) string {
	return strings.ToLower(Text(s))
}

// EmailPtr normalizes an optional email field.
func EmailPtr(p *string) *string {
	t := TextPtr(p)
	if t == nil {
		return nil
	}
	e := strings.ToLower(*t)
	return &e
}
