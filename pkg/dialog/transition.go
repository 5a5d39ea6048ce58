package dialog

// resolveTransition scans the state's transition rules in declared order and
// returns the first one that fires for the classified intent. A conditioned
// rule whose condition yields no state does not halt the scan; later rules
// with the same intent are still consulted. clear_slots updates are applied
// only when a rule actually fires.
func (e *Engine) resolveTransition(state *State, intent string, c *Context) (string, bool) {
	for i := range state.Transitions {
		rule := &state.Transitions[i]
		if rule.Intent != intent {
			continue
		}

		if rule.Condition != "" {
			next := e.conditions.Check(rule.Condition, c, rule.Target)
			if next == "" {
				continue
			}
			applyContextUpdates(rule, c)
			return next, true
		}

		applyContextUpdates(rule, c)
		return rule.Target, true
	}
	return "", false
}

func applyContextUpdates(rule *TransitionRule, c *Context) {
	if rule.ContextUpdates == nil {
		return
	}
	for _, slotName := range rule.ContextUpdates.ClearSlots {
		c.ClearSlot(slotName)
	}
}
