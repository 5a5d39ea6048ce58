package nlu

import "context"

// MockPredictor is a scripted Predictor for tests. Utterances resolve through
// the Predictions map; anything unscripted classifies as IntentUnknown.
type MockPredictor struct {
	Predictions map[string]Prediction
	Err         error

	Calls []Schema // schemas received, in order
}

// Predict returns the scripted prediction for the utterance.
func (m *MockPredictor) Predict(_ context.Context, utterance string, schema Schema) (Prediction, error) {
	m.Calls = append(m.Calls, schema)
	if m.Err != nil {
		return Prediction{}, m.Err
	}
	if p, ok := m.Predictions[utterance]; ok {
		return p, nil
	}
	return Prediction{Intent: IntentUnknown}, nil
}

// MockGenerator is a canned Generator for tests.
type MockGenerator struct {
	Response string
	Err      error

	Prompts []string // prompts received, in order
}

// GenerateResponse returns the canned response.
func (m *MockGenerator) GenerateResponse(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
