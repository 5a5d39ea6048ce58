// Package nlu defines the natural-language-understanding collaborator
// contracts consumed by the dialog engine, plus LLM-backed implementations.
package nlu

import "context"

// IntentUnknown is the label returned when the input matches none of the
// permitted intents.
const IntentUnknown = "unknown"

// Entity is one candidate extraction for a slot. Text is the source span;
// Value carries an optional pre-enriched value.
type Entity struct {
	Text  string `json:"text"`
	Value any    `json:"value,omitempty"`
}

// Prediction is the result of one NLU call: a classified intent and the
// candidate extractions per slot name.
type Prediction struct {
	Intent   string              `json:"intent"`
	Entities map[string][]Entity `json:"entities"`
}

// Schema describes what the NLU should look for in one utterance: slot names
// with natural-language descriptions, and the permitted intent labels for the
// current state.
type Schema struct {
	Entities map[string]string // slot name -> description
	Intents  []string          // permitted intent labels (IntentUnknown is implicit)

	// Context carried for prompt construction.
	CurrentState     string
	StateDescription string
}

// Predictor converts one utterance into an intent and candidate entities.
type Predictor interface {
	Predict(ctx context.Context, utterance string, schema Schema) (Prediction, error)
}

// Generator produces free text for the delegated-generation response strategy.
type Generator interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}
