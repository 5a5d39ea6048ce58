package llm

import (
	"context"
	"fmt"
)

// MockClient provides a controllable implementation of Client for testing.
type MockClient struct {
	responses     []Response
	responseIndex int
	errors        []error
	errorIndex    int
	requests      []Request
}

// NewMockClient creates a new mock client with predefined responses.
// Errors, when provided, are returned before responses in order.
func NewMockClient(responses []Response, errors []error) *MockClient {
	return &MockClient{
		responses: responses,
		errors:    errors,
	}
}

// Complete returns the next predefined response or error.
func (m *MockClient) Complete(_ context.Context, in Request) (Response, error) {
	m.requests = append(m.requests, in)

	if m.errorIndex < len(m.errors) && m.errors[m.errorIndex] != nil {
		err := m.errors[m.errorIndex]
		m.errorIndex++
		return Response{}, err
	}

	if m.responseIndex >= len(m.responses) {
		return Response{}, fmt.Errorf("mock client: no more responses")
	}

	resp := m.responses[m.responseIndex]
	m.responseIndex++
	return resp, nil
}

// ModelName returns a fixed mock model name.
func (m *MockClient) ModelName() string {
	return "mock-model"
}

// Requests returns the requests seen so far, for assertions.
func (m *MockClient) Requests() []Request {
	return m.requests
}
