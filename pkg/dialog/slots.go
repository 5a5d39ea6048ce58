package dialog

import "rudder/pkg/nlu"

// processSlots runs extracted entities through validation and enrichment
// before writing them into the context. Slots are scoped to the state that
// declared them: entities with no slot_config entry are ignored. A
// validation failure skips the slot for this turn and never aborts the turn.
func (e *Engine) processSlots(state *State, c *Context, entities map[string][]nlu.Entity) {
	for name, candidates := range entities {
		if len(candidates) == 0 {
			continue
		}

		spec, ok := state.SlotConfig[name]
		if !ok {
			e.logger.Debug("Ignoring entity %s: not configured for state %s", name, state.ID)
			continue
		}

		if spec.Validator != "" && !e.validators.Validate(spec.Validator, candidates) {
			e.logger.Warn("Slot %s=%q failed validation %s", name, candidates[0].Text, spec.Validator)
			continue
		}

		if spec.Enricher != "" {
			// First-candidate-wins: enrich the top extraction's source
			// text and overwrite its value.
			enriched := e.validators.Enrich(spec.Enricher, candidates[0].Text)
			candidates[0].Value = enriched
		}

		c.UpdateSlot(name, candidates)
	}
}
