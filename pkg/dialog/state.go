package dialog

// StateType distinguishes how the engine treats a state when a turn begins
// or lands on it.
type StateType string

const (
	// StateNormal waits for user input and routes on classified intent.
	StateNormal StateType = "normal"
	// StateAction executes a side-effecting function immediately on entry.
	StateAction StateType = "action"
	// StateTerminal forces a reset to the start state on the next turn.
	StateTerminal StateType = "terminal"
)

// FallbackBehavior selects the handling path when no transition rule matches.
type FallbackBehavior string

const (
	// FallbackOutOfScope routes the conversation to the out_of_scope state.
	FallbackOutOfScope FallbackBehavior = "oos"
	// FallbackAskReclassify asks the user to rephrase without changing state.
	FallbackAskReclassify FallbackBehavior = "ask_reclassify"
)

// OutOfScopeStateID is the state the FallbackOutOfScope behavior routes to.
const OutOfScopeStateID = "out_of_scope"

// SlotSpec configures validation, enrichment, and extraction description for
// one slot within a state.
type SlotSpec struct {
	Validator   string `json:"validator,omitempty" yaml:"validator,omitempty"`
	Enricher    string `json:"enricher,omitempty" yaml:"enricher,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ContextUpdates lists context mutations applied when a transition rule fires.
type ContextUpdates struct {
	ClearSlots []string `json:"clear_slots,omitempty" yaml:"clear_slots,omitempty"`
}

// TransitionRule routes a classified intent to a target state, optionally
// gated by a named condition. Rule order is significant: first match wins,
// and the same intent may appear on several rules to cascade condition
// checks.
type TransitionRule struct {
	Intent         string          `json:"intent" yaml:"intent"`
	Target         string          `json:"target" yaml:"target"`
	Condition      string          `json:"condition,omitempty" yaml:"condition,omitempty"`
	ContextUpdates *ContextUpdates `json:"context_updates,omitempty" yaml:"context_updates,omitempty"`
}

// State is one immutable node in the dialog graph, read from the flow
// document at engine construction.
//
// For normal states Transitions drives routing; for action states
// ResultTransitions maps the action's result code to the next state.
// At most one of ResponseFunction, ResponseTemplate, ResponsePrompt is
// consulted, in that priority order.
type State struct {
	ID          string    `json:"-" yaml:"-"`
	Type        StateType `json:"type,omitempty" yaml:"type,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`

	Transitions       []TransitionRule  `json:"-" yaml:"-"`
	ResultTransitions map[string]string `json:"-" yaml:"-"`

	SlotConfig    map[string]SlotSpec `json:"slot_config,omitempty" yaml:"slot_config,omitempty"`
	SlotsRequired []string            `json:"slots_required,omitempty" yaml:"slots_required,omitempty"`
	SlotsOptional []string            `json:"slots_optional,omitempty" yaml:"slots_optional,omitempty"`

	ActionName string `json:"action_name,omitempty" yaml:"action_name,omitempty"`

	ResponseFunction string `json:"response_function,omitempty" yaml:"response_function,omitempty"`
	ResponseTemplate string `json:"response_template,omitempty" yaml:"response_template,omitempty"`
	ResponsePrompt   string `json:"response_prompt,omitempty" yaml:"response_prompt,omitempty"`

	Fallback FallbackBehavior `json:"fallback_behavior,omitempty" yaml:"fallback_behavior,omitempty"`
}

// IntentLabels returns the intents this state can route on, in declaration
// order with duplicates removed.
func (s *State) IntentLabels() []string {
	seen := make(map[string]bool, len(s.Transitions))
	labels := make([]string, 0, len(s.Transitions))
	for i := range s.Transitions {
		intent := s.Transitions[i].Intent
		if intent == "" || seen[intent] {
			continue
		}
		seen[intent] = true
		labels = append(labels, intent)
	}
	return labels
}

// ExtractableSlots returns required followed by optional slot names.
func (s *State) ExtractableSlots() []string {
	slots := make([]string, 0, len(s.SlotsRequired)+len(s.SlotsOptional))
	slots = append(slots, s.SlotsRequired...)
	slots = append(slots, s.SlotsOptional...)
	return slots
}
