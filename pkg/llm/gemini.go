package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient wraps the Google GenAI client to implement the Client interface.
type GeminiClient struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiClient creates a new Gemini client for the given model.
// Client creation requires a context, so it is deferred to the first Complete call.
func NewGeminiClient(apiKey, model string) Client {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
	}
}

// Complete implements the Client interface.
func (g *GeminiClient) Complete(ctx context.Context, in Request) (Response, error) {
	if g.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return Response{}, NewErrorWithCause(ErrorTypeAuth, err, "failed to create Gemini client")
		}
		g.client = client
	}

	contents, systemInstruction, err := convertMessagesToGemini(in.Messages)
	if err != nil {
		return Response{}, NewErrorWithCause(ErrorTypeBadPrompt, err, "message conversion error")
	}

	//nolint:gosec // MaxTokens is bounded by the caller
	maxTokens := int32(in.MaxTokens)
	config := &genai.GenerateContentConfig{
		Temperature:     &in.Temperature,
		MaxOutputTokens: maxTokens,
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return Response{}, classifyError(err)
	}
	if result == nil || result.Text() == "" {
		return Response{}, NewError(ErrorTypeEmptyResponse, "empty response from Gemini API")
	}

	return Response{
		Content:    result.Text(),
		StopReason: "end_turn",
	}, nil
}

// ModelName returns the model name for this client.
func (g *GeminiClient) ModelName() string {
	return g.model
}

// convertMessagesToGemini converts our message format to Gemini's Content
// format. System messages become the system instruction; Gemini uses "model"
// in place of "assistant".
func convertMessagesToGemini(messages []Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("message list cannot be empty")
	}

	var systemInstruction string
	var contents []*genai.Content

	for i := range messages {
		msg := &messages[i]

		if msg.Role == RoleSystem {
			if systemInstruction != "" {
				systemInstruction += "\n\n" + msg.Content
			} else {
				systemInstruction = msg.Content
			}
			continue
		}

		var role string
		switch msg.Role {
		case RoleUser:
			role = "user"
		case RoleAssistant:
			role = "model"
		default:
			return nil, "", fmt.Errorf("unsupported message role: %s", msg.Role)
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	if len(contents) == 0 {
		return nil, "", fmt.Errorf("must have at least one non-system message")
	}

	return contents, systemInstruction, nil
}
