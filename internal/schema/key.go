package schema

import (
	"fmt"
	"net/url"
)

// Key holds one or more primary-key columns with their values for a single
// row. Built per request, immutable once built.
type Key struct {
	columns []string
	values  []any
}

// NewKey pairs columns with values. At least one column is required, and
// every column must carry a value: a key with a missing value cannot
// identify an existing row.
func NewKey(columns []string, values []any) (Key, error) {
	if len(columns) == 0 {
		return Key{}, configErr("", "", "primary key requires at least one column")
	}
	if len(columns) != len(values) {
		return Key{}, configErr("", "", "primary key has %d columns but %d values", len(columns), len(values))
	}
	for i, v := range values {
		if v == nil || v == "" {
			return Key{}, configErr("", "", "primary key column %s has an empty value", columns[i])
		}
	}
	return Key{
		columns: append([]string(nil), columns...),
		values:  append([]any(nil), values...),
	}, nil
}

// Columns returns the ordered column names.
func (k Key) Columns() []string {
	return append([]string(nil), k.columns...)
}

// Value returns the value bound to a column.
func (k Key) Value(column string) (any, bool) {
	for i, c := range k.columns {
		if c == column {
			return k.values[i], true
		}
	}
	return nil, false
}

// Values returns the ordered values.
func (k Key) Values() []any {
	return append([]any(nil), k.values...)
}

// Len returns the number of key columns.
func (k Key) Len() int {
	return len(k.columns)
}

// Prefixed projects the key into a variant whose column names carry a
// prefix. Used to keep key parameters in a namespace disjoint from SET
// clause parameters when a column is both updated and part of the key.
func (k Key) Prefixed(prefix string) Key {
	cols := make([]string, len(k.columns))
	for i, c := range k.columns {
		cols[i] = prefix + c
	}
	return Key{columns: cols, values: append([]any(nil), k.values...)}
}

// QueryValues encodes the key as URL query parameters, for building
// redirect targets and row links.
func (k Key) QueryValues() url.Values {
	v := url.Values{}
	for i, c := range k.columns {
		v.Set(c, fmt.Sprintf("%v", k.values[i]))
	}
	return v
}
