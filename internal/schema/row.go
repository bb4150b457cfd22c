package schema

import (
	"strconv"
	"time"
)

// Value is one normalized cell. Exactly one of the typed fields is
// meaningful, selected by Kind; Null marks an absent number or an
// unparseable date.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
	Null bool
}

// display renders a value for identity keys and plain cells.
func (v Value) display() string {
	if v.Null {
		return ""
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		return v.Time.Format("2006-01-02")
	}
	return ""
}

// Row is one normalized record with a stable identity key. Rows are
// immutable after normalization: any update produces a replacement Row,
// never a partial mutation visible mid-aggregation.
type Row struct {
	vals  map[string]Value
	extra map[string]string
	key   string
}

// Key returns the row's stable identity key.
func (r Row) Key() string { return r.key }

// Str returns the string value for key, or "N/A" when the field is absent.
func (r Row) Str(key string) string {
	v, ok := r.vals[key]
	if !ok || v.Null {
		return StringNA
	}
	return v.display()
}

// Num returns the numeric value for key; absent or null fields read as 0.
func (r Row) Num(key string) float64 {
	v, ok := r.vals[key]
	if !ok || v.Null || v.Kind != KindNumber {
		return 0
	}
	return v.Num
}

// NumOK returns the numeric value and whether it was actually present.
func (r Row) NumOK(key string) (float64, bool) {
	v, ok := r.vals[key]
	if !ok || v.Null || v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Bool returns the boolean value for key; absent fields read as false.
func (r Row) Bool(key string) bool {
	v, ok := r.vals[key]
	return ok && v.Kind == KindBool && v.Bool
}

// Date returns the parsed date for key and whether it parsed successfully.
func (r Row) Date(key string) (time.Time, bool) {
	v, ok := r.vals[key]
	if !ok || v.Null || v.Kind != KindDate {
		return time.Time{}, false
	}
	return v.Time, true
}

// Extra returns a display-only passthrough value, or "" if absent.
func (r Row) Extra(key string) string { return r.extra[key] }

// Values returns a copy of the row's normalized cells, keyed by field.
func (r Row) Values() map[string]Value {
	out := make(map[string]Value, len(r.vals))
	for k, v := range r.vals {
		out[k] = v
	}
	return out
}

// Extras returns a copy of the row's passthrough cells.
func (r Row) Extras() map[string]string {
	if len(r.extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.extra))
	for k, v := range r.extra {
		out[k] = v
	}
	return out
}
