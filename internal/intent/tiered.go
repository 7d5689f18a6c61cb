package intent

import (
	"context"

	"github.com/tazaticket/flight-concierge/pkg/logging"
)

// llmTier is the slow classifier consulted for ambiguous messages.
type llmTier interface {
	Classify(ctx context.Context, text string) (Intent, error)
}

// TieredClassifier runs the keyword tier first and only consults the LLM when
// the keyword verdict is not decisive. If the LLM tier fails, the keyword
// verdict stands so a provider outage never blocks a turn.
type TieredClassifier struct {
	keyword *KeywordClassifier
	llm     llmTier
	logger  *logging.Logger
}

func NewTieredClassifier(keyword *KeywordClassifier, llm llmTier, logger *logging.Logger) *TieredClassifier {
	if keyword == nil {
		keyword = NewKeywordClassifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TieredClassifier{keyword: keyword, llm: llm, logger: logger}
}

func (c *TieredClassifier) Classify(ctx context.Context, text string, afterBookingPrompt bool) Intent {
	verdict, decisive := c.keyword.Classify(text, afterBookingPrompt)
	if decisive || c.llm == nil {
		return verdict
	}

	llmVerdict, err := c.llm.Classify(ctx, text)
	if err != nil {
		c.logger.Warn("intent LLM tier failed, keeping keyword verdict",
			"error", err.Error(),
			"keyword_verdict", string(verdict),
		)
		return verdict
	}
	return llmVerdict
}
