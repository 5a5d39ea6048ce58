// Package flow loads and validates dialog flow documents: the declarative
// state graphs the engine executes. Documents are JSON or YAML files with a
// settings block and a state table.
package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"rudder/pkg/dialog"
)

// Settings holds document-level configuration.
type Settings struct {
	StartState string `json:"start_state" yaml:"start_state"`
}

// Document is a parsed and validated flow definition.
type Document struct {
	Settings Settings                 `json:"settings" yaml:"settings"`
	States   map[string]*dialog.State `json:"states" yaml:"states"`
}

// rawState mirrors dialog.State for decoding. The transitions field is
// polymorphic in the document format: a rule list on normal states, a result
// code map on action states.
type rawState struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`

	Transitions any `json:"transitions" yaml:"transitions"`

	SlotConfig    map[string]dialog.SlotSpec `json:"slot_config" yaml:"slot_config"`
	SlotsRequired []string                   `json:"slots_required" yaml:"slots_required"`
	SlotsOptional []string                   `json:"slots_optional" yaml:"slots_optional"`

	ActionName string `json:"action_name" yaml:"action_name"`

	ResponseFunction string `json:"response_function" yaml:"response_function"`
	ResponseTemplate string `json:"response_template" yaml:"response_template"`
	ResponsePrompt   string `json:"response_prompt" yaml:"response_prompt"`

	Fallback string `json:"fallback_behavior" yaml:"fallback_behavior"`
}

type rawDocument struct {
	Settings Settings             `json:"settings" yaml:"settings"`
	States   map[string]*rawState `json:"states" yaml:"states"`
}

// Load reads a flow document from disk, selecting the format by extension
// (.yaml/.yml for YAML, anything else JSON), and validates it.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON parses and validates a JSON flow document.
func ParseJSON(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse flow document: %w", err)
	}
	return buildDocument(&raw)
}

// ParseYAML parses and validates a YAML flow document.
func ParseYAML(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse flow document: %w", err)
	}
	return buildDocument(&raw)
}

func buildDocument(raw *rawDocument) (*Document, error) {
	doc := &Document{
		Settings: raw.Settings,
		States:   make(map[string]*dialog.State, len(raw.States)),
	}

	for id, rs := range raw.States {
		state, err := buildState(id, rs)
		if err != nil {
			return nil, err
		}
		doc.States[id] = state
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func buildState(id string, rs *rawState) (*dialog.State, error) {
	state := &dialog.State{
		ID:               id,
		Type:             stateType(rs.Type),
		Description:      rs.Description,
		SlotConfig:       rs.SlotConfig,
		SlotsRequired:    rs.SlotsRequired,
		SlotsOptional:    rs.SlotsOptional,
		ActionName:       rs.ActionName,
		ResponseFunction: rs.ResponseFunction,
		ResponseTemplate: rs.ResponseTemplate,
		ResponsePrompt:   rs.ResponsePrompt,
		Fallback:         dialog.FallbackBehavior(rs.Fallback),
	}

	switch transitions := rs.Transitions.(type) {
	case nil:
		// Terminal and leaf states carry no transitions.
	case []any:
		rules, err := decodeTransitionRules(transitions)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", id, err)
		}
		state.Transitions = rules
	case map[string]any:
		results, err := decodeResultTransitions(transitions)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", id, err)
		}
		state.ResultTransitions = results
	default:
		return nil, fmt.Errorf("state %q: transitions must be a rule list or a result map, got %T", id, rs.Transitions)
	}

	return state, nil
}

func stateType(s string) dialog.StateType {
	if s == "" {
		return dialog.StateNormal
	}
	return dialog.StateType(s)
}

// decodeTransitionRules converts the decoded rule list through JSON to get
// strict field checking regardless of the source format.
func decodeTransitionRules(items []any) ([]dialog.TransitionRule, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("invalid transition rules: %w", err)
	}
	var rules []dialog.TransitionRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("invalid transition rules: %w", err)
	}
	return rules, nil
}

func decodeResultTransitions(m map[string]any) (map[string]string, error) {
	results := make(map[string]string, len(m))
	for code, target := range m {
		s, ok := target.(string)
		if !ok {
			return nil, fmt.Errorf("result transition %q: target must be a state id, got %T", code, target)
		}
		results[code] = s
	}
	return results, nil
}

// Validate checks the document's internal consistency: the start state
// exists, every transition target is a known state, action states name an
// action, and state types are from the known set.
func (d *Document) Validate() error {
	var errs []error

	if d.Settings.StartState == "" {
		errs = append(errs, errors.New("settings.start_state is required"))
	} else if _, ok := d.States[d.Settings.StartState]; !ok {
		errs = append(errs, fmt.Errorf("start state %q is not defined", d.Settings.StartState))
	}

	for id, state := range d.States {
		switch state.Type {
		case dialog.StateNormal, dialog.StateAction, dialog.StateTerminal:
		default:
			errs = append(errs, fmt.Errorf("state %q: unknown type %q", id, state.Type))
		}

		if state.Type == dialog.StateAction {
			if state.ActionName == "" {
				errs = append(errs, fmt.Errorf("action state %q: action_name is required", id))
			}
			if len(state.ResultTransitions) == 0 {
				errs = append(errs, fmt.Errorf("action state %q: result transitions are required", id))
			}
			if len(state.Transitions) > 0 {
				errs = append(errs, fmt.Errorf("action state %q: rule-list transitions are not allowed", id))
			}
		} else if len(state.ResultTransitions) > 0 {
			errs = append(errs, fmt.Errorf("state %q: result-map transitions require type action", id))
		}

		for i := range state.Transitions {
			rule := &state.Transitions[i]
			if rule.Intent == "" {
				errs = append(errs, fmt.Errorf("state %q: transition %d has no intent", id, i))
			}
			if _, ok := d.States[rule.Target]; !ok {
				errs = append(errs, fmt.Errorf("state %q: intent %q targets undefined state %q", id, rule.Intent, rule.Target))
			}
		}
		for code, target := range state.ResultTransitions {
			if _, ok := d.States[target]; !ok {
				errs = append(errs, fmt.Errorf("state %q: result %q targets undefined state %q", id, code, target))
			}
		}

		switch state.Fallback {
		case "", dialog.FallbackOutOfScope, dialog.FallbackAskReclassify:
		default:
			errs = append(errs, fmt.Errorf("state %q: unknown fallback_behavior %q", id, state.Fallback))
		}
	}

	return errors.Join(errs...)
}
