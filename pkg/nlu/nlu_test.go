package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rudder/pkg/llm"
)

func testSchema() Schema {
	return Schema{
		Entities: map[string]string{
			"account_name": "The name of the bank account",
			"amount":       "Extract the amount from the text",
		},
		Intents:          []string{"check_balance", "goodbye"},
		CurrentState:     "greeting",
		StateDescription: "User has just started the conversation",
	}
}

func TestBuildConstraintPrompt(t *testing.T) {
	prompt := BuildConstraintPrompt(testSchema())

	assert.Contains(t, prompt, "Current State: greeting")
	assert.Contains(t, prompt, "User has just started the conversation")
	assert.Contains(t, prompt, `"check_balance"`)
	assert.Contains(t, prompt, `"goodbye"`)
	assert.Contains(t, prompt, `"account_name": The name of the bank account`)
	assert.Contains(t, prompt, `use "unknown"`)
}

func TestBuildConstraintPromptNoSlots(t *testing.T) {
	schema := testSchema()
	schema.Entities = nil
	prompt := BuildConstraintPrompt(schema)
	assert.Contains(t, prompt, "Do NOT extract any entities")
	assert.Contains(t, prompt, `"entities": {}`)
}

func TestBuildConstraintPromptNoDescription(t *testing.T) {
	schema := testSchema()
	schema.StateDescription = ""
	prompt := BuildConstraintPrompt(schema)
	assert.Contains(t, prompt, "State Description: No description")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"prose around", "Sure! Here you go: {\"a\":1} hope that helps", `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"nested braces", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, true},
		{"no json", "no braces here", "", false},
		{"reversed braces", "} before {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLLMPredictor(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: `{"intent": "check_balance", "entities": {"account_name": "spending"}}`},
	}, nil)
	p := NewLLMPredictor(client)

	got, err := p.Predict(context.Background(), "balance on spending", testSchema())
	require.NoError(t, err)
	assert.Equal(t, "check_balance", got.Intent)
	require.Len(t, got.Entities["account_name"], 1)
	assert.Equal(t, "spending", got.Entities["account_name"][0].Text)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, llm.RoleSystem, reqs[0].Messages[0].Role)
	assert.Equal(t, "User Input: balance on spending", reqs[0].Messages[1].Content)
	assert.Equal(t, float32(llm.TemperatureExtraction), reqs[0].Temperature)
}

func TestLLMPredictorNormalizesIntentCase(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: `{"intent": "CHECK_BALANCE", "entities": {}}`},
	}, nil)
	p := NewLLMPredictor(client)

	got, err := p.Predict(context.Background(), "balance", testSchema())
	require.NoError(t, err)
	assert.Equal(t, "check_balance", got.Intent)
}

func TestLLMPredictorUnlistedIntentBecomesUnknown(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: `{"intent": "order_pizza", "entities": {}}`},
	}, nil)
	p := NewLLMPredictor(client)

	got, err := p.Predict(context.Background(), "pizza please", testSchema())
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, got.Intent)
}

func TestLLMPredictorDropsUnknownSlots(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: `{"intent": "check_balance", "entities": {"favorite_color": "blue", "amount": "50"}}`},
	}, nil)
	p := NewLLMPredictor(client)

	got, err := p.Predict(context.Background(), "50 in blue", testSchema())
	require.NoError(t, err)
	assert.NotContains(t, got.Entities, "favorite_color")
	assert.Contains(t, got.Entities, "amount")
}

func TestLLMPredictorCandidateShapes(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: `{"intent": "check_balance", "entities": {
			"account_name": ["spending", "savings"],
			"amount": {"text": "fifty", "value": 50}
		}}`},
	}, nil)
	p := NewLLMPredictor(client)

	got, err := p.Predict(context.Background(), "move fifty from spending or savings", testSchema())
	require.NoError(t, err)

	require.Len(t, got.Entities["account_name"], 2)
	assert.Equal(t, "spending", got.Entities["account_name"][0].Text)
	assert.Equal(t, "savings", got.Entities["account_name"][1].Text)

	require.Len(t, got.Entities["amount"], 1)
	assert.Equal(t, "fifty", got.Entities["amount"][0].Text)
	assert.Equal(t, 50.0, got.Entities["amount"][0].Value)
}

func TestLLMPredictorMalformedOutputDegradesToUnknown(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: "I'm sorry, I can't produce JSON today."},
	}, nil)
	p := NewLLMPredictor(client)

	got, err := p.Predict(context.Background(), "hello", testSchema())
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, got.Intent)
}

func TestLLMPredictorClientError(t *testing.T) {
	client := llm.NewMockClient(nil, []error{errors.New("rate limited")})
	p := NewLLMPredictor(client)

	_, err := p.Predict(context.Background(), "hello", testSchema())
	assert.Error(t, err)
}

func TestBuildGenerationInput(t *testing.T) {
	got := BuildGenerationInput("Tell the user their balance.\nContext: {\"balance\":\"50.00 GBP\"}")
	assert.Equal(t, "Context: {\"balance\":\"50.00 GBP\"}\nInstruction: Tell the user their balance.\nOutput:", got)

	got = BuildGenerationInput("Just say hi.")
	assert.Equal(t, "Context: {}\nInstruction: Just say hi.\nOutput:", got)
}

func TestLLMGeneratorParsesAnswer(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: `{"answer": "Your balance is 50.00 GBP."}`},
	}, nil)
	g := NewLLMGenerator(client)

	got, err := g.GenerateResponse(context.Background(), "Tell the user their balance.\nContext: {}")
	require.NoError(t, err)
	assert.Equal(t, "Your balance is 50.00 GBP.", got)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, float32(llm.TemperatureGeneration), reqs[0].Temperature)
}

func TestLLMGeneratorRawFallback(t *testing.T) {
	client := llm.NewMockClient([]llm.Response{
		{Content: "  Your balance is 50.00 GBP.  "},
	}, nil)
	g := NewLLMGenerator(client)

	got, err := g.GenerateResponse(context.Background(), "Tell the user their balance.")
	require.NoError(t, err)
	assert.Equal(t, "Your balance is 50.00 GBP.", got)
}

func TestTokenCounterFallback(t *testing.T) {
	var tc *TokenCounter
	assert.Equal(t, 2, tc.CountTokens("12345678"))

	counter, err := NewTokenCounter()
	require.NoError(t, err)
	assert.Positive(t, counter.CountTokens("hello world"))
	assert.True(t, counter.WithinLimit("hi", 10))
}
