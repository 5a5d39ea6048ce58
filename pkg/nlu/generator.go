package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rudder/pkg/llm"
	"rudder/pkg/logx"
)

// LLMGenerator implements Generator over a chat-completion client. The model
// is forced into a {"answer": ...} JSON contract; when it ignores that, the
// raw output is returned as a best effort.
type LLMGenerator struct {
	client llm.Client
	logger *logx.Logger
}

// NewLLMGenerator creates a generator over the given client.
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{
		client: client,
		logger: logx.NewLogger("nlu"),
	}
}

// GenerateResponse produces free text for a delegated-generation prompt.
func (g *LLMGenerator) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	req := llm.NewRequest([]llm.Message{
		llm.NewSystemMessage(generationSystemPrompt),
		llm.NewUserMessage(BuildGenerationInput(prompt)),
	})
	req.Temperature = llm.TemperatureGeneration

	resp, err := g.client.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	g.logger.Debug("Raw generation output: %s", resp.Content)

	if jsonStr, ok := ExtractJSON(resp.Content); ok {
		var parsed struct {
			Answer string `json:"answer"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err == nil && parsed.Answer != "" {
			return parsed.Answer, nil
		}
	}

	// Assume raw text if the model ignored the JSON contract.
	return strings.TrimSpace(resp.Content), nil
}
