// Package expression builds parameterized SQL boolean fragments from named
// values. An Expression never interpolates values into SQL text; it emits
// named placeholders (":name_1") and a matching parameter map, which the
// data layer flattens into driver placeholders at execution time.
package expression

import (
	"fmt"
	"strings"
)

// Expression is a named value plus a SQL pattern with %s placeholders.
// Expansion is lazy and cached: SQL and Params compile the pattern on first
// use. Instances are request-scoped and not safe for concurrent use.
type Expression struct {
	name    string
	value   any
	pattern string

	compiled bool
	sql      string
	params   map[string]any
}

// New builds an expression with the default pattern: equality for scalars,
// IN for slice values.
func New(name string, value any) *Expression {
	pattern := name + " = %s"
	if _, ok := asSlice(value); ok {
		pattern = name + " IN (%s)"
	}
	return &Expression{name: name, value: value, pattern: pattern}
}

// NewPattern builds an expression with a custom pattern. Each %s in the
// pattern becomes a uniquely named bound parameter.
func NewPattern(name string, value any, pattern string) *Expression {
	return &Expression{name: name, value: value, pattern: pattern}
}

// IsTrivial reports whether the value means "no constraint": nil, an empty
// string or an empty slice. Callers must omit trivial conditions from WHERE
// composition entirely; a trivial condition is "no filter", not "match
// nothing".
func (e *Expression) IsTrivial() bool {
	if e.value == nil {
		return true
	}
	if s, ok := e.value.(string); ok {
		return s == ""
	}
	if vs, ok := asSlice(e.value); ok {
		return len(vs) == 0
	}
	return false
}

// SQL returns the expanded fragment with named placeholders.
func (e *Expression) SQL() string {
	e.compile()
	return e.sql
}

// Params returns generated parameter name to bound value.
func (e *Expression) Params() map[string]any {
	e.compile()
	return e.params
}

// WithNamePrefix returns a new expression whose generated parameter names
// carry the prefix. The pattern (and therefore the column reference) is
// unchanged, so sub-filters can be merged into a larger query without
// parameter collisions.
func (e *Expression) WithNamePrefix(prefix string) *Expression {
	return &Expression{name: prefix + "_" + e.name, value: e.value, pattern: e.pattern}
}

// Wrap substitutes the current pattern into the single %s of the outer
// pattern, without re-binding the value.
func (e *Expression) Wrap(outer string) *Expression {
	return &Expression{
		name:    e.name,
		value:   e.value,
		pattern: strings.Replace(outer, "%s", e.pattern, 1),
	}
}

func (e *Expression) compile() {
	if e.compiled {
		return
	}
	e.params = map[string]any{}

	var sb strings.Builder
	n := 0
	rest := e.pattern
	for {
		i := strings.Index(rest, "%s")
		if i < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:i])
		rest = rest[i+2:]

		if vs, ok := asSlice(e.value); ok {
			// One bound parameter per element, suffixed by index.
			placeholders := make([]string, len(vs))
			for j, v := range vs {
				n++
				p := fmt.Sprintf("%s_%d", e.name, n)
				e.params[p] = v
				placeholders[j] = ":" + p
			}
			sb.WriteString(strings.Join(placeholders, ", "))
		} else {
			n++
			p := fmt.Sprintf("%s_%d", e.name, n)
			e.params[p] = e.value
			sb.WriteString(":" + p)
		}
	}

	e.sql = sb.String()
	e.compiled = true
}

// asSlice normalizes the supported slice shapes of a bound value.
func asSlice(v any) ([]any, bool) {
	switch vs := v.(type) {
	case []any:
		return vs, true
	case []string:
		out := make([]any, len(vs))
		for i, s := range vs {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(vs))
		for i, n := range vs {
			out[i] = n
		}
		return out, true
	case []int64:
		out := make([]any, len(vs))
		for i, n := range vs {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}
