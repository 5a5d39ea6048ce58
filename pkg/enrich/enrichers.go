package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rudder/pkg/dialog"
)

// ducklingValue is the common shape of a Duckling value payload. Which fields
// are set depends on the dimension: money and numbers carry Value/Unit, time
// carries an ISO timestamp in ValueStr, intervals carry From.
type ducklingValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
	Unit  string `json:"unit"`
	Grain string `json:"grain"`
	From  *struct {
		Value string `json:"value"`
		Grain string `json:"grain"`
	} `json:"from"`
}

func decodeValue(raw json.RawMessage) (ducklingValue, error) {
	var v ducklingValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return ducklingValue{}, fmt.Errorf("failed to decode duckling value: %w", err)
	}
	return v, nil
}

// AmountOfMoney resolves text like "fifty quid" to a monetary value.
func (c *Client) AmountOfMoney(text string) (dialog.SlotValue, error) {
	v, err := c.dimValue(text, "amount-of-money")
	if err != nil {
		return dialog.SlotValue{}, err
	}
	amount, ok := v.Value.(float64)
	if !ok {
		return dialog.SlotValue{}, fmt.Errorf("unexpected amount-of-money value %v", v.Value)
	}
	return dialog.MoneyValue(amount, v.Unit), nil
}

// Number resolves text like "five hundred" to a number.
func (c *Client) Number(text string) (dialog.SlotValue, error) {
	v, err := c.dimValue(text, "number")
	if err != nil {
		return dialog.SlotValue{}, err
	}
	n, ok := v.Value.(float64)
	if !ok {
		return dialog.SlotValue{}, fmt.Errorf("unexpected number value %v", v.Value)
	}
	return dialog.NumberValue(n), nil
}

// Ordinal resolves text like "the third one" to a number.
func (c *Client) Ordinal(text string) (dialog.SlotValue, error) {
	v, err := c.dimValue(text, "ordinal")
	if err != nil {
		return dialog.SlotValue{}, err
	}
	n, ok := v.Value.(float64)
	if !ok {
		return dialog.SlotValue{}, fmt.Errorf("unexpected ordinal value %v", v.Value)
	}
	return dialog.NumberValue(n), nil
}

// Time resolves text like "next friday" to a timestamp. Interval results
// resolve to their start.
func (c *Client) Time(text string) (dialog.SlotValue, error) {
	v, err := c.dimValue(text, "time")
	if err != nil {
		return dialog.SlotValue{}, err
	}

	stamp, _ := v.Value.(string)
	if v.Type == "interval" && v.From != nil {
		stamp = v.From.Value
	}
	if stamp == "" {
		return dialog.SlotValue{}, fmt.Errorf("unexpected time value %v", v.Value)
	}

	t, err := time.Parse("2006-01-02T15:04:05.000-07:00", stamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, stamp)
	}
	if err != nil {
		return dialog.SlotValue{}, fmt.Errorf("failed to parse time %q: %w", stamp, err)
	}
	return dialog.TimeValue(t), nil
}

// Duration resolves text like "three weeks" to an object with value and unit.
func (c *Client) Duration(text string) (dialog.SlotValue, error) {
	return c.objectValue(text, "duration")
}

// Quantity resolves text like "two pints" to an object with value and unit.
func (c *Client) Quantity(text string) (dialog.SlotValue, error) {
	return c.objectValue(text, "quantity")
}

// Email resolves an email address mentioned in text.
func (c *Client) Email(text string) (dialog.SlotValue, error) {
	return c.textValue(text, "email")
}

// PhoneNumber resolves a phone number mentioned in text.
func (c *Client) PhoneNumber(text string) (dialog.SlotValue, error) {
	return c.textValue(text, "phone-number")
}

// URL resolves a URL mentioned in text.
func (c *Client) URL(text string) (dialog.SlotValue, error) {
	return c.textValue(text, "url")
}

func (c *Client) dimValue(text, dim string) (ducklingValue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
	defer cancel()

	raw, err := c.FirstValue(ctx, text, dim)
	if err != nil {
		return ducklingValue{}, err
	}
	return decodeValue(raw)
}

func (c *Client) textValue(text, dim string) (dialog.SlotValue, error) {
	v, err := c.dimValue(text, dim)
	if err != nil {
		return dialog.SlotValue{}, err
	}
	s, ok := v.Value.(string)
	if !ok {
		return dialog.SlotValue{}, fmt.Errorf("unexpected %s value %v", dim, v.Value)
	}
	return dialog.TextValue(s), nil
}

func (c *Client) objectValue(text, dim string) (dialog.SlotValue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
	defer cancel()

	raw, err := c.FirstValue(ctx, text, dim)
	if err != nil {
		return dialog.SlotValue{}, err
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return dialog.SlotValue{}, fmt.Errorf("failed to decode %s value: %w", dim, err)
	}
	return dialog.ObjectValue(obj), nil
}

// RegisterAll registers every Duckling-backed enricher under its conventional
// flow-config name. Enricher failures fall back to the raw text at the
// registry level, so a Duckling outage degrades rather than breaking turns.
func RegisterAll(registry *dialog.ValidatorRegistry, client *Client) {
	registry.RegisterEnricher("amount_of_money", client.AmountOfMoney)
	registry.RegisterEnricher("number", client.Number)
	registry.RegisterEnricher("ordinal", client.Ordinal)
	registry.RegisterEnricher("time", client.Time)
	registry.RegisterEnricher("duration", client.Duration)
	registry.RegisterEnricher("quantity", client.Quantity)
	registry.RegisterEnricher("email", client.Email)
	registry.RegisterEnricher("phone_number", client.PhoneNumber)
	registry.RegisterEnricher("url", client.URL)
}
