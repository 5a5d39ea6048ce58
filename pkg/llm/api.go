// Package llm provides interfaces and types for language model client implementations.
package llm

import "context"

// Role represents the role of a message in a conversation.
type Role string

const (
	// RoleSystem indicates a system message that provides instructions or context.
	RoleSystem Role = "system"
	// RoleUser indicates a message from the human user.
	RoleUser Role = "user"
	// RoleAssistant indicates a message from the model.
	RoleAssistant Role = "assistant"
)

const (
	// TemperatureExtraction is used for intent classification and entity
	// extraction, where determinism matters more than variety.
	TemperatureExtraction = 0.0

	// TemperatureGeneration is used for free-text response generation.
	TemperatureGeneration = 0.7

	// DefaultMaxTokens bounds a single completion.
	DefaultMaxTokens = 1024
)

// Message represents a message in a completion request.
type Message struct {
	Role    Role
	Content string
}

// Request represents a request to generate a completion.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Response represents a response from a completion request.
type Response struct {
	Content    string // Main response text
	StopReason string // Why the response stopped: "end_turn", "max_tokens", etc.
}

// Client defines the interface for language model interactions.
// Implementations are synchronous; timeout and cancellation policy belongs to
// the caller's context.
type Client interface {
	// Complete generates a completion synchronously.
	Complete(ctx context.Context, in Request) (Response, error)

	// ModelName returns the model name for this client.
	ModelName() string
}

// NewRequest creates a completion request with default values.
func NewRequest(messages []Message) Request {
	return Request{
		Messages:    messages,
		MaxTokens:   DefaultMaxTokens,
		Temperature: TemperatureExtraction,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
