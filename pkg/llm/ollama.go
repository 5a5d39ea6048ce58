package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaClient wraps the Ollama API client to implement the Client interface.
// Ollama is a local model runtime, the closest Go-native stand-in for the
// small extraction models this engine was designed around.
type OllamaClient struct {
	client  *api.Client
	model   string
	hostURL string
}

// NewOllamaClient creates a new Ollama client.
// hostURL should be the Ollama server URL (e.g., "http://localhost:11434").
func NewOllamaClient(hostURL, model string) Client {
	parsedURL, err := url.Parse(hostURL)
	if err != nil {
		// Fall back to default if URL is invalid
		parsedURL, _ = url.Parse("http://localhost:11434")
	}

	client := api.NewClient(parsedURL, http.DefaultClient)

	return &OllamaClient{
		client:  client,
		model:   model,
		hostURL: hostURL,
	}
}

// Complete implements the Client interface.
func (o *OllamaClient) Complete(ctx context.Context, in Request) (Response, error) {
	if len(in.Messages) == 0 {
		return Response{}, NewError(ErrorTypeBadPrompt, "message list cannot be empty")
	}

	messages := make([]api.Message, 0, len(in.Messages))
	for i := range in.Messages {
		msg := &in.Messages[i]
		messages = append(messages, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": in.Temperature,
			"num_predict": in.MaxTokens,
		},
	}

	var response api.ChatResponse
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return Response{}, classifyOllamaError(err)
	}

	return Response{
		Content:    response.Message.Content,
		StopReason: ollamaStopReason(&response),
	}, nil
}

// ModelName returns the model name for this client.
func (o *OllamaClient) ModelName() string {
	return o.model
}

// ollamaStopReason converts Ollama's done_reason to our stop reason format.
func ollamaStopReason(resp *api.ChatResponse) string {
	if !resp.Done {
		return "incomplete"
	}
	switch resp.DoneReason {
	case "stop", "":
		return "end_turn"
	case "length":
		return "max_tokens"
	default:
		return resp.DoneReason
	}
}

// classifyOllamaError converts Ollama errors to classified error types.
func classifyOllamaError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "connection refused"):
		return NewErrorWithCause(ErrorTypeTransient, err, "Ollama server not reachable")
	case strings.Contains(errStr, "model") && strings.Contains(errStr, "not found"):
		return NewErrorWithCause(ErrorTypeBadPrompt, fmt.Errorf("%w", err), "Ollama model not found")
	default:
		return classifyError(err)
	}
}
