package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// TimestampLayout is the canonical ISO-8601 form every temporal value takes
// once it leaves the store. Microseconds are kept and trailing zeros dropped,
// so whole-second values render without a fraction.
const TimestampLayout = "2006-01-02T15:04:05.999999"

// FormatTimestamp renders t in the canonical layout, in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts the canonical layout as well as RFC 3339 and
// plain dates.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// collectRows materializes pgx rows into column-keyed maps.
func collectRows(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := make([]Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, field := range fields {
			row[field.Name] = NormalizeValue(values[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// NormalizeValue converts driver-specific representations into plain Go
// values. Temporal values become canonical timestamp strings, integers
// widen to int64, numerics become float64 and UUIDs become strings.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return FormatTimestamp(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return FormatTimestamp(*val)
	case pgtype.Date:
		if !val.Valid {
			return nil
		}
		return FormatTimestamp(val.Time)
	case pgtype.Timestamp:
		if !val.Valid {
			return nil
		}
		return FormatTimestamp(val.Time)
	case pgtype.Timestamptz:
		if !val.Valid {
			return nil
		}
		return FormatTimestamp(val.Time)
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(val).String()
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = NormalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = NormalizeValue(item)
		}
		return out
	default:
		return v
	}
}
