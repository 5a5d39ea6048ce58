package dialog

import (
	"maps"

	"rudder/pkg/nlu"
)

// TurnRecord is one entry in a conversation's history.
type TurnRecord struct {
	Role        string               `json:"role"`
	Text        string               `json:"text"`
	StateIn     string               `json:"state_in"`
	StateOut    string               `json:"state_out"`
	BotResponse string               `json:"bot_response"`
	Slots       map[string]SlotValue `json:"slots"`
}

// Context is the mutable per-session record. It is created once at session
// start and mutated exclusively by the engine during ProcessTurn; the host
// owns teardown. A Context must not be shared between concurrent turns.
type Context struct {
	SessionID     string                  `json:"session_id"`
	CurrentState  string                  `json:"current_state"`
	PreviousState string                  `json:"previous_state,omitempty"`
	Slots         map[string]SlotValue    `json:"slots"`
	SlotMeta      map[string][]nlu.Entity `json:"slot_meta"`
	History       []TurnRecord            `json:"history"`
}

// Snapshot is the read-only view handed to prompt and schema builders.
type Snapshot struct {
	CurrentState string               `json:"current_state"`
	Slots        map[string]SlotValue `json:"slots"`
	LastTurn     *TurnRecord          `json:"last_turn,omitempty"`
}

// NewContext creates a session context positioned at the given start state.
func NewContext(sessionID, startState string) *Context {
	return &Context{
		SessionID:    sessionID,
		CurrentState: startState,
		Slots:        make(map[string]SlotValue),
		SlotMeta:     make(map[string][]nlu.Entity),
	}
}

// RecordTurn appends a history entry. The slots snapshot is copied so later
// mutation does not rewrite history.
func (c *Context) RecordTurn(userInput, stateIn, stateOut, botResponse string, slots map[string]SlotValue) {
	snapshot := make(map[string]SlotValue, len(slots))
	maps.Copy(snapshot, slots)

	c.History = append(c.History, TurnRecord{
		Role:        "user", // Initiator
		Text:        userInput,
		StateIn:     stateIn,
		StateOut:    stateOut,
		BotResponse: botResponse,
		Slots:       snapshot,
	})
}

// UpdateSlot writes a processed extraction into Slots and keeps the raw
// candidates in SlotMeta. The first candidate wins: downstream consumers read
// only the top extraction. Nested enrichment payloads of the shape
// {"value": {..., "value": X}} are unwrapped to X.
func (c *Context) UpdateSlot(key string, candidates []nlu.Entity) {
	if len(candidates) == 0 {
		return
	}

	first := candidates[0]
	var value SlotValue
	switch {
	case first.Value != nil:
		value = CoerceValue(unwrapNested(first.Value))
	default:
		value = TextValue(first.Text)
	}

	c.Slots[key] = value
	c.SlotMeta[key] = candidates
}

// SetSlot writes a normalized value directly, bypassing extraction. Actions
// use this to communicate results back for rendering.
func (c *Context) SetSlot(key string, value SlotValue) {
	c.Slots[key] = value
}

// Slot returns the normalized value for a slot name.
func (c *Context) Slot(key string) (SlotValue, bool) {
	v, ok := c.Slots[key]
	return v, ok
}

// ClearSlot deletes a slot and its metadata.
func (c *Context) ClearSlot(key string) {
	delete(c.Slots, key)
	delete(c.SlotMeta, key)
}

// GetSnapshot returns the current state, slots, and last turn.
func (c *Context) GetSnapshot() Snapshot {
	snap := Snapshot{
		CurrentState: c.CurrentState,
		Slots:        c.Slots,
	}
	if len(c.History) > 0 {
		snap.LastTurn = &c.History[len(c.History)-1]
	}
	return snap
}

// unwrapNested unwraps enrichment payloads where the useful scalar sits under
// a "value" key (the shape Duckling-style services produce).
func unwrapNested(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		if v, ok := m["value"]; ok {
			return v
		}
	}
	return raw
}
