package dialog

import (
	"context"
	"encoding/json"
	"strings"
)

// DefaultResponseText is the last-resort placeholder when a state configures
// no rendering strategy.
const DefaultResponseText = "Thinking..."

// generateResponse renders the outgoing text for a state, trying the custom
// function, template substitution, and delegated generation strategies in
// strict priority order. First success wins.
func (e *Engine) generateResponse(ctx context.Context, state *State, c *Context) string {
	if state.ResponseFunction != "" {
		if response := e.responses.Generate(state.ResponseFunction, c); response != "" {
			return response
		}
	}

	if state.ResponseTemplate != "" {
		return RenderTemplate(state.ResponseTemplate, c.Slots)
	}

	if state.ResponsePrompt != "" && e.generator != nil {
		prompt := state.ResponsePrompt + "\nContext: " + serializeSlots(c.Slots)
		response, err := e.generator.GenerateResponse(ctx, prompt)
		if err != nil {
			e.logger.Error("Delegated generation failed for state %s: %v", state.ID, err)
		} else if response != "" {
			return response
		}
	}

	return DefaultResponseText
}

// RenderTemplate substitutes {{slotName}} placeholders with the string form
// of each slot currently set. Unmatched placeholders are left verbatim.
func RenderTemplate(template string, slots map[string]SlotValue) string {
	for key, value := range slots {
		template = strings.ReplaceAll(template, "{{"+key+"}}", value.String())
	}
	return template
}

// serializeSlots renders the slot map as JSON for inclusion in a generation
// prompt. Falls back to the display form if marshaling fails.
func serializeSlots(slots map[string]SlotValue) string {
	display := make(map[string]string, len(slots))
	for key, value := range slots {
		display[key] = value.String()
	}
	data, err := json.Marshal(display)
	if err != nil {
		return "{}"
	}
	return string(data)
}
