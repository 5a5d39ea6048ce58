package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// OpenAIClient wraps the official OpenAI Go client to implement the Client interface.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for the given model.
func NewOpenAIClient(apiKey, model string) Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// Complete implements the Client interface using the Responses API.
func (o *OpenAIClient) Complete(ctx context.Context, in Request) (Response, error) {
	// The Responses API takes a single input string; fold the conversation
	// into one prompt.
	var inputText string
	for i := range in.Messages {
		msg := &in.Messages[i]
		switch msg.Role {
		case RoleSystem:
			inputText += fmt.Sprintf("System: %s\n\n", msg.Content)
		case RoleAssistant:
			inputText += fmt.Sprintf("Assistant: %s\n\n", msg.Content)
		default:
			inputText += msg.Content
		}
	}

	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(int64(in.MaxTokens)),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(inputText)},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return Response{}, classifyError(err)
	}
	if resp == nil {
		return Response{}, NewError(ErrorTypeEmptyResponse, "empty response from OpenAI Responses API")
	}

	content := resp.OutputText()
	if content == "" {
		return Response{}, NewError(ErrorTypeEmptyResponse, "no text output in OpenAI response")
	}

	return Response{
		Content:    content,
		StopReason: "end_turn",
	}, nil
}

// ModelName returns the model name for this client.
func (o *OpenAIClient) ModelName() string {
	return o.model
}
