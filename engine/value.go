package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// VALUE — Tagged scalar cell
// ============================================================================
// Rows are open-ended column→value maps, so every cell carries its own
// kind tag instead of trusting shape at every read. Classification happens
// once at ingestion; the engine only ever coerces through Float().
// ============================================================================

// Kind identifies the scalar type stored in a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
	KindBool
)

// String returns the schema-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "boolean"
	default:
		return "string"
	}
}

// Value is a single cell: one of string, number, date, or boolean.
// The zero Value is an empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// StringValue wraps a plain string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a float.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// DateValue wraps an ISO-like date kept in its original string form.
func DateValue(s string) Value { return Value{kind: KindDate, str: s} }

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the value's scalar kind.
func (v Value) Kind() Kind { return v.kind }

// Float coerces the value to a float64 for aggregation.
// Numbers return themselves, numeric strings parse, everything else is 0.
// Never an error — non-numeric cells contribute zero to aggregates.
func (v Value) Float() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// String renders the value for display and group keys.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		if v.num == float64(int64(v.num)) {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// MarshalJSON emits the bare scalar so result rows serialize as plain
// records, e.g. {"indication":"Cancer","total_cost":8000}.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON re-classifies an incoming scalar: JSON numbers and bools
// keep their kind, strings are checked for an ISO date prefix.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case float64:
		*v = NumberValue(t)
	case bool:
		*v = BoolValue(t)
	case string:
		*v = ClassifyString(t)
	case nil:
		*v = StringValue("")
	default:
		return fmt.Errorf("unsupported cell type %T", raw)
	}
	return nil
}

// ClassifyString turns a raw string cell into a tagged Value:
// ISO-like dates stay dates, fully numeric strings become numbers,
// everything else remains a string.
func ClassifyString(s string) Value {
	trimmed := strings.TrimSpace(s)
	if LooksLikeDate(trimmed) {
		return DateValue(trimmed)
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil && trimmed != "" {
		return NumberValue(mustParseFloat(trimmed))
	}
	return StringValue(s)
}

var isoDatePrefix = []byte("0000-00-00")

// LooksLikeDate reports whether s starts with a YYYY-MM-DD shaped prefix.
func LooksLikeDate(s string) bool {
	if len(s) < len(isoDatePrefix) {
		return false
	}
	for i := range isoDatePrefix {
		if isoDatePrefix[i] == '-' {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// ============================================================================
// ROW
// ============================================================================

// Row is a single data record: column name → tagged scalar.
type Row map[string]Value
