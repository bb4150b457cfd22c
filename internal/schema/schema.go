// Package schema defines the normalized Row shape shared by every feed and
// the pure normalization step that maps raw JSON objects into it.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the declared type of a schema field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindDate
)

// Field declares one recognized column of a feed.
type Field struct {
	Key  string
	Kind Kind

	// NullDefault applies to number fields only: when the raw value is
	// missing or malformed, the normalized value is null rather than 0.
	NullDefault bool
}

// Schema enumerates the recognized columns of a single feed, the fields that
// form each row's identity key, and any display-only passthrough keys.
type Schema struct {
	Name      string
	Fields    []Field
	KeyFields []string

	// Passthrough keys (by convention prefixed with "_", e.g. "_logo_url")
	// are copied verbatim as strings and excluded from aggregation.
	Passthrough []string
}

// StringNA is the documented default for missing string fields.
const StringNA = "N/A"

// dateLayouts are tried in order when parsing date fields.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Field returns the declaration for key, or nil if the schema does not
// declare it.
func (s *Schema) Field(key string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			return &s.Fields[i]
		}
	}
	return nil
}

// Normalize maps a raw JSON object into a Row. It is pure: the same raw
// input and schema always yield the same Row, and it touches neither the
// network nor any shared state.
//
// For every declared field the raw value is extracted and coerced; missing
// or malformed values take the field's documented default (0 or null for
// numbers, "N/A" for strings, false for booleans, null for dates). Unknown
// raw keys are ignored unless declared as passthrough.
func Normalize(raw map[string]any, s *Schema) Row {
	vals := make(map[string]Value, len(s.Fields))
	for _, f := range s.Fields {
		vals[f.Key] = coerce(raw[f.Key], f)
	}

	var extra map[string]string
	for _, key := range s.Passthrough {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[key] = asString(v)
	}

	return Row{
		vals:  vals,
		extra: extra,
		key:   identityKey(vals, s),
	}
}

// BuildRow reconstructs a Row from already-normalized values, recomputing the
// identity key. Used by the snapshot archive when reloading rows from disk.
func BuildRow(vals map[string]Value, extra map[string]string, s *Schema) Row {
	copied := make(map[string]Value, len(vals))
	for k, v := range vals {
		copied[k] = v
	}
	var ex map[string]string
	if len(extra) > 0 {
		ex = make(map[string]string, len(extra))
		for k, v := range extra {
			ex[k] = v
		}
	}
	return Row{vals: copied, extra: ex, key: identityKey(copied, s)}
}

// identityKey joins the schema's key fields into a stable identity string.
func identityKey(vals map[string]Value, s *Schema) string {
	parts := make([]string, 0, len(s.KeyFields))
	for _, kf := range s.KeyFields {
		v, ok := vals[kf]
		if !ok {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, v.display())
	}
	return strings.Join(parts, "|")
}

// coerce converts one raw JSON value into the declared field kind, applying
// the documented default when the value is missing or malformed.
func coerce(v any, f Field) Value {
	switch f.Kind {
	case KindString:
		if v == nil {
			return Value{Kind: KindString, Str: StringNA}
		}
		return Value{Kind: KindString, Str: asString(v)}

	case KindNumber:
		n, ok := asNumber(v)
		if !ok {
			return Value{Kind: KindNumber, Null: f.NullDefault}
		}
		return Value{Kind: KindNumber, Num: n}

	case KindBool:
		b, _ := v.(bool)
		return Value{Kind: KindBool, Bool: b}

	case KindDate:
		t, ok := asDate(v)
		if !ok {
			return Value{Kind: KindDate, Null: true}
		}
		return Value{Kind: KindDate, Time: t}
	}
	return Value{Kind: f.Kind, Null: true}
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// JSON numbers arrive as float64; render integers without a point.
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// asNumber coerces a raw value into a float64. String values tolerate
// currency formatting ("$1,234.50") since several upstream feeds return
// pre-formatted amounts.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		cleaned := strings.TrimSpace(x)
		cleaned = strings.TrimPrefix(cleaned, "$")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.TrimSuffix(cleaned, "%")
		if cleaned == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func asDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case float64:
		// Unix milliseconds.
		if x <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(x)).UTC(), true
	default:
		return time.Time{}, false
	}
}
