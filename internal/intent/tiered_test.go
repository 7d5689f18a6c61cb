package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLLMTier struct {
	verdict Intent
	err     error
	calls   int
}

func (f *fakeLLMTier) Classify(ctx context.Context, text string) (Intent, error) {
	f.calls++
	return f.verdict, f.err
}

func TestTieredSkipsLLMForDecisiveKeywordVerdicts(t *testing.T) {
	llm := &fakeLLMTier{verdict: IntentGeneralChat}
	c := NewTieredClassifier(NewKeywordClassifier(), llm, nil)

	got := c.Classify(context.Background(), "book a flight to Dubai", false)

	assert.Equal(t, IntentFlightBooking, got)
	assert.Equal(t, 0, llm.calls)
}

func TestTieredConsultsLLMWhenAmbiguous(t *testing.T) {
	llm := &fakeLLMTier{verdict: IntentFlightBooking}
	c := NewTieredClassifier(NewKeywordClassifier(), llm, nil)

	got := c.Classify(context.Background(), "what about next week", false)

	assert.Equal(t, IntentFlightBooking, got)
	assert.Equal(t, 1, llm.calls)
}

func TestTieredKeepsKeywordVerdictOnLLMFailure(t *testing.T) {
	llm := &fakeLLMTier{err: errors.New("provider down")}
	c := NewTieredClassifier(NewKeywordClassifier(), llm, nil)

	got := c.Classify(context.Background(), "what about next week", false)

	assert.Equal(t, IntentGeneralChat, got)
}

func TestTieredWorksWithoutLLMTier(t *testing.T) {
	c := NewTieredClassifier(nil, nil, nil)

	got := c.Classify(context.Background(), "hmm not sure", false)

	assert.Equal(t, IntentGeneralChat, got)
}
