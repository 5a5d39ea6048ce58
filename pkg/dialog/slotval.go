package dialog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SlotKind discriminates the closed set of slot value shapes. Enrichers
// document which kind they produce.
type SlotKind string

const (
	KindText     SlotKind = "text"
	KindNumber   SlotKind = "number"
	KindBool     SlotKind = "bool"
	KindDateTime SlotKind = "datetime"
	KindMoney    SlotKind = "money"
	KindObject   SlotKind = "object"
	KindList     SlotKind = "list"
)

// SlotValue is a tagged union for normalized slot values. Exactly the fields
// relevant to Kind are meaningful; the rest stay zero.
type SlotValue struct {
	Kind   SlotKind       `json:"kind"`
	Text   string         `json:"text,omitempty"`
	Number float64        `json:"number,omitempty"`
	Bool   bool           `json:"bool,omitempty"`
	Time   time.Time      `json:"time,omitzero"`
	Unit   string         `json:"unit,omitempty"` // currency or measurement unit for KindMoney
	Object map[string]any `json:"object,omitempty"`
	List   []SlotValue    `json:"list,omitempty"`
}

// TextValue creates a text slot value.
func TextValue(s string) SlotValue {
	return SlotValue{Kind: KindText, Text: s}
}

// NumberValue creates a numeric slot value.
func NumberValue(f float64) SlotValue {
	return SlotValue{Kind: KindNumber, Number: f}
}

// BoolValue creates a boolean slot value.
func BoolValue(b bool) SlotValue {
	return SlotValue{Kind: KindBool, Bool: b}
}

// TimeValue creates a datetime slot value.
func TimeValue(t time.Time) SlotValue {
	return SlotValue{Kind: KindDateTime, Time: t}
}

// MoneyValue creates a monetary slot value with a currency unit.
func MoneyValue(amount float64, unit string) SlotValue {
	return SlotValue{Kind: KindMoney, Number: amount, Unit: unit}
}

// ObjectValue creates a structured slot value.
func ObjectValue(m map[string]any) SlotValue {
	return SlotValue{Kind: KindObject, Object: m}
}

// ListValue creates a list slot value.
func ListValue(vs ...SlotValue) SlotValue {
	return SlotValue{Kind: KindList, List: vs}
}

// IsZero reports whether the value is the unset zero value.
func (v SlotValue) IsZero() bool {
	return v.Kind == ""
}

// String renders the display form used for template substitution and prompt
// serialization.
func (v SlotValue) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDateTime:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04")
	case KindMoney:
		amount := strconv.FormatFloat(v.Number, 'f', 2, 64)
		if v.Unit == "" {
			return amount
		}
		return amount + " " + v.Unit
	case KindObject:
		// Stable key order keeps rendered output deterministic.
		keys := make([]string, 0, len(v.Object))
		for k := range v.Object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v.Object[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// AsNumber returns the numeric form of the value if it has one.
func (v SlotValue) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber, KindMoney:
		return v.Number, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CoerceValue converts an arbitrary decoded value (JSON-shaped any) into a
// SlotValue. Used when NLU or enrichment collaborators hand back untyped
// payloads.
func CoerceValue(raw any) SlotValue {
	switch val := raw.(type) {
	case nil:
		return SlotValue{}
	case SlotValue:
		return val
	case string:
		return TextValue(val)
	case float64:
		return NumberValue(val)
	case int:
		return NumberValue(float64(val))
	case int64:
		return NumberValue(float64(val))
	case bool:
		return BoolValue(val)
	case time.Time:
		return TimeValue(val)
	case map[string]any:
		return ObjectValue(val)
	case []any:
		items := make([]SlotValue, 0, len(val))
		for _, item := range val {
			items = append(items, CoerceValue(item))
		}
		return ListValue(items...)
	default:
		return TextValue(fmt.Sprintf("%v", val))
	}
}
