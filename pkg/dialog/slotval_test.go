package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotValueString(t *testing.T) {
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    SlotValue
		want string
	}{
		{"text", TextValue("spending"), "spending"},
		{"integer number", NumberValue(42), "42"},
		{"fractional number", NumberValue(3.25), "3.25"},
		{"bool", BoolValue(true), "true"},
		{"date only", TimeValue(midnight), "2026-03-14"},
		{"date and time", TimeValue(afternoon), "2026-03-14 15:30"},
		{"money", MoneyValue(1250.5, "GBP"), "1250.50 GBP"},
		{"money without unit", MoneyValue(7, ""), "7.00"},
		{"object", ObjectValue(map[string]any{"b": 2, "a": 1}), "{a=1, b=2}"},
		{"list", ListValue(TextValue("a"), NumberValue(2)), "[a, 2]"},
		{"zero", SlotValue{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestSlotValueAsNumber(t *testing.T) {
	f, ok := NumberValue(5).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 5.0, f)

	f, ok = MoneyValue(9.5, "GBP").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 9.5, f)

	f, ok = TextValue(" 12.5 ").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = TextValue("twelve").AsNumber()
	assert.False(t, ok)

	_, ok = BoolValue(true).AsNumber()
	assert.False(t, ok)
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, TextValue("hi"), CoerceValue("hi"))
	assert.Equal(t, NumberValue(3), CoerceValue(3.0))
	assert.Equal(t, NumberValue(3), CoerceValue(3))
	assert.Equal(t, BoolValue(true), CoerceValue(true))
	assert.True(t, CoerceValue(nil).IsZero())

	obj := CoerceValue(map[string]any{"k": "v"})
	assert.Equal(t, KindObject, obj.Kind)

	list := CoerceValue([]any{"a", 1.0})
	assert.Equal(t, KindList, list.Kind)
	assert.Equal(t, ListValue(TextValue("a"), NumberValue(1)), list)

	// Already-normalized values pass through.
	v := MoneyValue(5, "GBP")
	assert.Equal(t, v, CoerceValue(v))
}
