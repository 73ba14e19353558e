package series

import (
	"strings"

	"github.com/nash-dir/lesserpandas/pkg/value"
)

// StringMethods applies text transforms to the text elements of a Series.
type StringMethods struct {
	s *Series
}

// Str returns the text accessor for s.
func (s *Series) Str() *StringMethods {
	return &StringMethods{s: s}
}

// mapText applies fn to text elements. Null and non-text elements become null.
func (m *StringMethods) mapText(fn func(string) value.Value) *Series {
	out := make([]value.Value, len(m.s.values))
	for i, v := range m.s.values {
		if t, ok := v.Text(); ok {
			out[i] = fn(t)
		}
	}
	return m.s.derive(out)
}

// Lower lowercases text elements.
func (m *StringMethods) Lower() *Series {
	return m.mapText(func(t string) value.Value { return value.Text(strings.ToLower(t)) })
}

// Upper uppercases text elements.
func (m *StringMethods) Upper() *Series {
	return m.mapText(func(t string) value.Value { return value.Text(strings.ToUpper(t)) })
}

// Strip trims leading and trailing whitespace.
func (m *StringMethods) Strip() *Series {
	return m.mapText(func(t string) value.Value { return value.Text(strings.TrimSpace(t)) })
}

// Replace substitutes every occurrence of old with repl.
func (m *StringMethods) Replace(old, repl string) *Series {
	return m.mapText(func(t string) value.Value { return value.Text(strings.ReplaceAll(t, old, repl)) })
}

// Len returns the rune count of text elements.
func (m *StringMethods) Len() *Series {
	return m.mapText(func(t string) value.Value { return value.Int(int64(len([]rune(t)))) })
}

// Contains tests for a substring. Null stays null; a non-text element is false.
func (m *StringMethods) Contains(pat string) *Series {
	return m.predicate(func(t string) bool { return strings.Contains(t, pat) })
}

// StartsWith tests for a prefix with the same null policy as Contains.
func (m *StringMethods) StartsWith(prefix string) *Series {
	return m.predicate(func(t string) bool { return strings.HasPrefix(t, prefix) })
}

func (m *StringMethods) predicate(fn func(string) bool) *Series {
	out := make([]value.Value, len(m.s.values))
	for i, v := range m.s.values {
		switch t, ok := v.Text(); {
		case v.IsNull():
			out[i] = value.Null()
		case !ok:
			out[i] = value.Bool(false)
		default:
			out[i] = value.Bool(fn(t))
		}
	}
	return m.s.derive(out)
}
