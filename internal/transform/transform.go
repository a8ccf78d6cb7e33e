// Package transform converts field values between their stored (database)
// representation and the normalized in-memory representation used by forms
// and views.
package transform

import (
	"fmt"
	"strconv"
	"time"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// TimestampLayout is the storage format for timestamp columns.
const TimestampLayout = "2006-01-02 15:04:05"

// TypeError marks a value that cannot be converted for its declared type,
// or a conversion attempted on a virtual type. Always a programming or
// configuration fault, never user input.
type TypeError struct {
	Type schema.DataType
	Msg  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("transform: type %s: %s", e.Type, e.Msg)
}

func typeErr(t schema.DataType, format string, args ...any) *TypeError {
	return &TypeError{Type: t, Msg: fmt.Sprintf(format, args...)}
}

// NormalizedFromDB converts a stored value into its normalized form.
func NormalizedFromDB(v any, t schema.DataType) (any, error) {
	switch t {
	case schema.TypeString, schema.TypeDate:
		if v == nil {
			return nil, nil
		}
		return toString(v), nil

	case schema.TypeInt:
		if v == nil {
			return nil, nil
		}
		return toInt64(v, t)

	case schema.TypeFloat:
		if v == nil {
			return nil, nil
		}
		return toFloat64(v, t)

	case schema.TypeBool:
		switch val := v.(type) {
		case nil:
			return false, nil
		case bool:
			return val, nil
		case int64:
			return val == 1, nil
		case int:
			return val == 1, nil
		case string:
			return val == "1", nil
		case []byte:
			return string(val) == "1", nil
		default:
			return nil, typeErr(t, "unsupported storage value %T", v)
		}

	case schema.TypeTimestamp:
		switch val := v.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return val, nil
		case string:
			return parseTimestamp(val)
		case []byte:
			return parseTimestamp(string(val))
		default:
			return nil, typeErr(t, "unsupported storage value %T", v)
		}

	case schema.TypeUnixtime:
		// Storage zero is the "unset" sentinel and normalizes to nil, not
		// to the epoch. Preserved for compatibility with existing data.
		if v == nil {
			return nil, nil
		}
		sec, err := toInt64(v, t)
		if err != nil {
			return nil, err
		}
		if sec == 0 {
			return nil, nil
		}
		return time.Unix(sec, 0).UTC(), nil

	case schema.TypeVirtual:
		return nil, typeErr(t, "virtual fields are never transformed")

	default:
		return nil, typeErr(t, "unknown data type")
	}
}

// DBFromNormalized converts a normalized value into its stored form.
func DBFromNormalized(v any, t schema.DataType) (any, error) {
	switch t {
	case schema.TypeString, schema.TypeDate:
		if v == nil {
			return nil, nil
		}
		return toString(v), nil

	case schema.TypeInt:
		if v == nil {
			return nil, nil
		}
		return toInt64(v, t)

	case schema.TypeFloat:
		if v == nil {
			return nil, nil
		}
		return toFloat64(v, t)

	case schema.TypeBool:
		switch val := v.(type) {
		case nil:
			return int64(0), nil
		case bool:
			if val {
				return int64(1), nil
			}
			return int64(0), nil
		case string:
			if val == "1" || val == "on" {
				return int64(1), nil
			}
			return int64(0), nil
		default:
			return nil, typeErr(t, "unsupported normalized value %T", v)
		}

	case schema.TypeTimestamp:
		switch val := v.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return val.Format(TimestampLayout), nil
		default:
			return nil, typeErr(t, "unsupported normalized value %T", v)
		}

	case schema.TypeUnixtime:
		// Nil normalizes back to the storage zero sentinel.
		switch val := v.(type) {
		case nil:
			return int64(0), nil
		case time.Time:
			return val.Unix(), nil
		case int64:
			return val, nil
		default:
			return nil, typeErr(t, "unsupported normalized value %T", v)
		}

	case schema.TypeVirtual:
		return nil, typeErr(t, "virtual fields are never transformed")

	default:
		return nil, typeErr(t, "unknown data type")
	}
}

func parseTimestamp(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{TimestampLayout, time.RFC3339, time.RFC3339Nano} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return nil, typeErr(schema.TypeTimestamp, "cannot parse %q", s)
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func toInt64(v any, t schema.DataType) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, typeErr(t, "cannot parse %q as integer", val)
		}
		return n, nil
	case []byte:
		return toInt64(string(val), t)
	default:
		return 0, typeErr(t, "unsupported value %T", v)
	}
}

func toFloat64(v any, t schema.DataType) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, typeErr(t, "cannot parse %q as float", val)
		}
		return f, nil
	case []byte:
		return toFloat64(string(val), t)
	default:
		return 0, typeErr(t, "unsupported value %T", v)
	}
}
