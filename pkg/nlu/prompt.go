package nlu

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// BuildConstraintPrompt constructs the strict system prompt that turns a
// general-purpose model into a constrained classifier/extractor for one
// state. Intent labels and slot names are injected verbatim so the model can
// echo them back exactly.
func BuildConstraintPrompt(schema Schema) string {
	intentList, _ := json.MarshalIndent(schema.Intents, "", "  ")

	description := schema.StateDescription
	if description == "" {
		description = "No description"
	}

	var extraction, entitiesTemplate string
	if len(schema.Entities) == 0 {
		extraction = "2. Entity Extraction: Do NOT extract any entities. Return an empty dictionary."
		entitiesTemplate = `"entities": {}`
	} else {
		slotLines := make([]string, 0, len(schema.Entities))
		for _, name := range sortedSlotNames(schema.Entities) {
			slotLines = append(slotLines, fmt.Sprintf("   - %q: %s", name, schema.Entities[name]))
		}
		extraction = fmt.Sprintf(`2. Entity Extraction: Extract values for the following slots if present in the input:
%s
   - Return entities as a dictionary where keys are the specific slot names from the list above.`,
			strings.Join(slotLines, "\n"))
		entitiesTemplate = `"entities": {
    "<slot_name>": "<extracted_value>"
  }`
	}

	return fmt.Sprintf(`You are a Dialog Decision Engine. Your task is to analyze User Input and extract structured data.

Context:
- Current State: %s
- State Description: %s

Constraints:
1. Intent Classification: You MUST classify the User Input into EXACTLY ONE of the following Intents:
%s
   - If the input matches one of these intents, use that exact string as the "intent".
   - If the input does NOT match any of these (e.g., gibberish, unrelated), use %q.

%s

Output strict JSON:
{
  "intent": "<classified_intent>",
  %s
}`, schema.CurrentState, description, intentList, IntentUnknown, extraction, entitiesTemplate)
}

// generationSystemPrompt forces JSON output so free text survives models that
// drift into extraction-style answers.
const generationSystemPrompt = `Your task is to generate natural language responses based on the provided instruction and context. Replace values in the instruction with the ones in context to understand the required tone of the response. You MUST output strict JSON in the following format:
{
  "answer": "Your natural language response here"
}`

// BuildGenerationInput reorders a delegated-generation prompt into the
// context-first form the model expects. The engine appends slot context after
// a "\nContext: " separator; absent that, context is empty.
func BuildGenerationInput(prompt string) string {
	instruction, contextJSON, found := strings.Cut(prompt, "\nContext: ")
	if !found {
		contextJSON = "{}"
	}
	return fmt.Sprintf("Context: %s\nInstruction: %s\nOutput:", contextJSON, instruction)
}

func sortedSlotNames(entities map[string]string) []string {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractJSON finds the outermost JSON object in model output: everything
// from the first '{' through the last '}'. Models wrap JSON in prose and
// code fences often enough that strict parsing of the whole output fails.
func ExtractJSON(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
