package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rudder/pkg/llm"
	"rudder/pkg/logx"
)

// DefaultMaxPromptTokens bounds the combined system prompt and utterance.
const DefaultMaxPromptTokens = 4096

// LLMPredictor implements Predictor over any chat-completion client by
// constraining the model with a per-state system prompt and parsing its JSON
// output. Malformed output degrades to IntentUnknown rather than failing the
// turn.
type LLMPredictor struct {
	client          llm.Client
	counter         *TokenCounter
	maxPromptTokens int
	logger          *logx.Logger
}

// NewLLMPredictor creates a predictor over the given client. Tokenizer
// construction failure is tolerated; counting falls back to estimation.
func NewLLMPredictor(client llm.Client) *LLMPredictor {
	logger := logx.NewLogger("nlu")
	counter, err := NewTokenCounter()
	if err != nil {
		logger.Warn("Tokenizer unavailable, using character estimation: %v", err)
	}
	return &LLMPredictor{
		client:          client,
		counter:         counter,
		maxPromptTokens: DefaultMaxPromptTokens,
		logger:          logger,
	}
}

// rawPrediction is the wire shape the constrained model is instructed to
// produce. Entity values arrive untyped: a plain string, a list of
// candidates, or an object with text/value fields, depending on the model.
type rawPrediction struct {
	Intent   string         `json:"intent"`
	Entities map[string]any `json:"entities"`
}

// Predict classifies one utterance against the state schema.
func (p *LLMPredictor) Predict(ctx context.Context, utterance string, schema Schema) (Prediction, error) {
	systemPrompt := BuildConstraintPrompt(schema)
	userPrompt := "User Input: " + utterance

	if p.counter != nil && !p.counter.WithinLimit(systemPrompt+userPrompt, p.maxPromptTokens) {
		p.logger.Warn("Prompt exceeds %d tokens for state %s", p.maxPromptTokens, schema.CurrentState)
	}

	req := llm.NewRequest([]llm.Message{
		llm.NewSystemMessage(systemPrompt),
		llm.NewUserMessage(userPrompt),
	})

	resp, err := p.client.Complete(ctx, req)
	if err != nil {
		return Prediction{}, fmt.Errorf("nlu completion failed: %w", err)
	}
	p.logger.Debug("Raw NLU output: %s", resp.Content)

	raw, ok := parseRawPrediction(resp.Content)
	if !ok {
		p.logger.Warn("No parseable JSON in NLU output, treating as unknown intent")
		return Prediction{Intent: IntentUnknown}, nil
	}

	return normalizePrediction(raw, schema), nil
}

func parseRawPrediction(content string) (rawPrediction, bool) {
	jsonStr, ok := ExtractJSON(content)
	if !ok {
		return rawPrediction{}, false
	}
	var raw rawPrediction
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return rawPrediction{}, false
	}
	return raw, true
}

// normalizePrediction maps the model's output onto the schema: the intent is
// case-normalized and clamped to the permitted labels, and entity values are
// converted to candidate lists keyed by known slot names.
func normalizePrediction(raw rawPrediction, schema Schema) Prediction {
	prediction := Prediction{
		Intent:   IntentUnknown,
		Entities: make(map[string][]Entity),
	}

	intent := strings.TrimSpace(raw.Intent)
	for _, label := range schema.Intents {
		if strings.EqualFold(intent, label) {
			prediction.Intent = label
			break
		}
	}

	for name, value := range raw.Entities {
		if _, known := schema.Entities[name]; !known {
			continue
		}
		candidates := entityCandidates(value)
		if len(candidates) > 0 {
			prediction.Entities[name] = candidates
		}
	}
	return prediction
}

// entityCandidates converts one untyped entity payload into candidates.
func entityCandidates(value any) []Entity {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []Entity{{Text: v}}
	case []any:
		candidates := make([]Entity, 0, len(v))
		for _, item := range v {
			candidates = append(candidates, entityCandidates(item)...)
		}
		return candidates
	case map[string]any:
		e := Entity{}
		if text, ok := v["text"].(string); ok {
			e.Text = text
		}
		if inner, ok := v["value"]; ok {
			e.Value = inner
		}
		if e.Text == "" && e.Value == nil {
			return nil
		}
		return []Entity{e}
	default:
		return []Entity{{Text: fmt.Sprintf("%v", v)}}
	}
}
