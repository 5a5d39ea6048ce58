package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeClient wraps the Anthropic API client to implement the Client interface.
type ClaudeClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaudeClient creates a new Claude client for the given model.
func NewClaudeClient(apiKey, model string) Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ClaudeClient{
		client: client,
		model:  anthropic.Model(model),
	}
}

// splitSystem extracts system messages into a single system prompt and merges
// consecutive user messages so the remainder strictly alternates, which the
// Anthropic API requires.
func splitSystem(messages []Message) (systemPrompt string, alternating []Message, err error) {
	if len(messages) == 0 {
		return "", nil, fmt.Errorf("message list cannot be empty")
	}

	var systemParts []string
	var pendingUser []string

	flushUser := func() {
		if len(pendingUser) > 0 {
			alternating = append(alternating, Message{
				Role:    RoleUser,
				Content: strings.Join(pendingUser, "\n\n"),
			})
			pendingUser = nil
		}
	}

	for i := range messages {
		msg := &messages[i]
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case RoleAssistant:
			flushUser()
			alternating = append(alternating, *msg)
		default:
			pendingUser = append(pendingUser, msg.Content)
		}
	}
	flushUser()

	if len(alternating) == 0 {
		return "", nil, fmt.Errorf("must have at least one non-system message")
	}
	if alternating[0].Role != RoleUser {
		return "", nil, fmt.Errorf("first message must be user role, got: %s", alternating[0].Role)
	}
	if alternating[len(alternating)-1].Role != RoleUser {
		return "", nil, fmt.Errorf("last message must be user role, got: %s", alternating[len(alternating)-1].Role)
	}

	return strings.Join(systemParts, "\n\n"), alternating, nil
}

// Complete implements the Client interface.
func (c *ClaudeClient) Complete(ctx context.Context, in Request) (Response, error) {
	systemPrompt, alternating, err := splitSystem(in.Messages)
	if err != nil {
		return Response{}, NewErrorWithCause(ErrorTypeBadPrompt, err, "message alternation error")
	}

	messages := make([]anthropic.MessageParam, 0, len(alternating))
	for i := range alternating {
		msg := &alternating[i]
		messages = append(messages, anthropic.MessageParam{
			Role:    anthropic.MessageParamRole(msg.Role),
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)},
		})
	}

	params := anthropic.MessageNewParams{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   int64(in.MaxTokens),
		Temperature: anthropic.Float(float64(in.Temperature)),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{
			Text: systemPrompt,
			Type: "text",
		}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, classifyError(err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return Response{}, NewError(ErrorTypeEmptyResponse, "received empty response from Claude API")
	}

	var responseText string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			responseText += block.AsText().Text
		}
	}

	return Response{
		Content:    responseText,
		StopReason: string(resp.StopReason),
	}, nil
}

// ModelName returns the model name for this client.
func (c *ClaudeClient) ModelName() string {
	return string(c.model)
}
