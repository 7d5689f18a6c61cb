package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tazaticket/flight-concierge/internal/llm"
)

const classifierPrompt = `Classify this message from a flight booking assistant's user into ONE category. Respond with JSON only.

Categories:
- greeting: Hello, salutations, pleasantries with no other content
- general_chat: Casual conversation, questions unrelated to flights
- capability_question: Asking what the assistant can do or how it helps
- flight_booking: Anything about searching, pricing or booking flights, mentioning routes, dates or passengers
- booking_confirmation: Agreeing to book a flight that was just offered

IMPORTANT:
- A city pair like "Lahore to Dubai" = flight_booking even without the word flight
- A bare date or passenger count during an ongoing booking conversation = flight_booking
- Only use booking_confirmation when the user is saying yes to a concrete offer

Message: %s

Respond with: {"category": "<category_name>"}`

// LLMClassifier resolves messages the keyword tier could not decide.
type LLMClassifier struct {
	client llm.Client
	model  string
}

func NewLLMClassifier(client llm.Client, model string) *LLMClassifier {
	return &LLMClassifier{client: client, model: model}
}

// Classify asks the model for a categorical verdict. Unparseable or unknown
// answers degrade to general_chat rather than erroring.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (Intent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return IntentGeneralChat, nil
	}

	prompt := strings.Replace(classifierPrompt, "%s", text, 1)

	resp, err := c.client.Complete(ctx, llm.Request{
		Model:     c.model,
		Messages:  []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: prompt}},
		MaxTokens: 50,
	})
	if err != nil {
		return IntentGeneralChat, err
	}

	var result struct {
		Category string `json:"category"`
	}

	// The model may wrap the JSON in prose or a code fence.
	content := strings.TrimSpace(resp.Text)
	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return IntentGeneralChat, nil
	}

	verdict := Intent(result.Category)
	if !verdict.Valid() {
		return IntentGeneralChat, nil
	}
	return verdict, nil
}
