package flow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rudder/pkg/dialog"
)

const bankingJSON = `{
  "settings": {"start_state": "greeting"},
  "states": {
    "greeting": {
      "description": "Start of the conversation",
      "transitions": [
        {"intent": "check_balance", "target": "do_lookup"},
        {"intent": "check_balance", "target": "greeting", "condition": "has_account"},
        {"intent": "goodbye", "target": "farewell", "context_updates": {"clear_slots": ["account_name"]}}
      ],
      "slots_required": ["account_name"],
      "slot_config": {
        "account_name": {"validator": "known_account", "description": "The account to look up"}
      },
      "response_template": "Hello!",
      "fallback_behavior": "ask_reclassify"
    },
    "do_lookup": {
      "type": "action",
      "action_name": "lookup_balance",
      "transitions": {"success": "greeting", "error": "farewell"}
    },
    "farewell": {
      "type": "terminal",
      "response_template": "Goodbye!"
    }
  }
}`

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(bankingJSON))
	require.NoError(t, err)

	assert.Equal(t, "greeting", doc.Settings.StartState)
	require.Len(t, doc.States, 3)

	greeting := doc.States["greeting"]
	assert.Equal(t, dialog.StateNormal, greeting.Type, "missing type defaults to normal")
	require.Len(t, greeting.Transitions, 3)
	assert.Equal(t, "has_account", greeting.Transitions[1].Condition)
	require.NotNil(t, greeting.Transitions[2].ContextUpdates)
	assert.Equal(t, []string{"account_name"}, greeting.Transitions[2].ContextUpdates.ClearSlots)
	assert.Equal(t, "known_account", greeting.SlotConfig["account_name"].Validator)
	assert.Equal(t, dialog.FallbackAskReclassify, greeting.Fallback)

	lookup := doc.States["do_lookup"]
	assert.Equal(t, dialog.StateAction, lookup.Type)
	assert.Equal(t, "lookup_balance", lookup.ActionName)
	assert.Equal(t, map[string]string{"success": "greeting", "error": "farewell"}, lookup.ResultTransitions)
	assert.Empty(t, lookup.Transitions)

	assert.Equal(t, dialog.StateTerminal, doc.States["farewell"].Type)
}

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(`
settings:
  start_state: greeting
states:
  greeting:
    transitions:
      - intent: goodbye
        target: farewell
  farewell:
    type: terminal
    response_template: Goodbye!
`))
	require.NoError(t, err)
	assert.Equal(t, "greeting", doc.Settings.StartState)
	require.Len(t, doc.States["greeting"].Transitions, 1)
	assert.Equal(t, "farewell", doc.States["greeting"].Transitions[0].Target)
}

func TestLoadSelectsFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "flow.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(bankingJSON), 0o644))
	doc, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "greeting", doc.Settings.StartState)

	yamlPath := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("settings:\n  start_state: a\nstates:\n  a: {}\n"), 0o644))
	doc, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Settings.StartState)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestValidateRejectsBrokenDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"missing start state",
			`{"settings": {"start_state": "nope"}, "states": {"a": {}}}`,
			`start state "nope" is not defined`,
		},
		{
			"no start state setting",
			`{"settings": {}, "states": {"a": {}}}`,
			"start_state is required",
		},
		{
			"dangling transition target",
			`{"settings": {"start_state": "a"}, "states": {
				"a": {"transitions": [{"intent": "go", "target": "ghost"}]}}}`,
			`targets undefined state "ghost"`,
		},
		{
			"dangling result target",
			`{"settings": {"start_state": "a"}, "states": {
				"a": {"type": "action", "action_name": "x", "transitions": {"success": "ghost"}}}}`,
			`targets undefined state "ghost"`,
		},
		{
			"action without name",
			`{"settings": {"start_state": "a"}, "states": {
				"a": {"type": "action", "transitions": {"success": "a"}}}}`,
			"action_name is required",
		},
		{
			"action without result map",
			`{"settings": {"start_state": "a"}, "states": {
				"a": {"type": "action", "action_name": "x"}}}`,
			"result transitions are required",
		},
		{
			"result map on normal state",
			`{"settings": {"start_state": "a"}, "states": {
				"a": {"transitions": {"success": "a"}}}}`,
			"require type action",
		},
		{
			"unknown state type",
			`{"settings": {"start_state": "a"}, "states": {"a": {"type": "weird"}}}`,
			`unknown type "weird"`,
		},
		{
			"unknown fallback",
			`{"settings": {"start_state": "a"}, "states": {"a": {"fallback_behavior": "panic"}}}`,
			`unknown fallback_behavior "panic"`,
		},
		{
			"transition without intent",
			`{"settings": {"start_state": "a"}, "states": {
				"a": {"transitions": [{"target": "a"}]}}}`,
			"has no intent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.doc))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseRejectsMalformedTransitions(t *testing.T) {
	_, err := ParseJSON([]byte(`{"settings": {"start_state": "a"}, "states": {
		"a": {"transitions": "everywhere"}}}`))
	assert.ErrorContains(t, err, "rule list or a result map")
}
