package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	appconfig "github.com/tazaticket/flight-concierge/internal/config"
	"github.com/tazaticket/flight-concierge/internal/conversation"
	"github.com/tazaticket/flight-concierge/internal/fares"
	"github.com/tazaticket/flight-concierge/internal/intent"
	"github.com/tazaticket/flight-concierge/internal/llm"
	"github.com/tazaticket/flight-concierge/internal/observability/metrics"
	"github.com/tazaticket/flight-concierge/internal/speech"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

// BuildConversationService wires the full turn pipeline from config. The LLM
// tier is optional: without Bedrock or Gemini credentials the service runs on
// keyword routing and heuristic slot extraction alone.
func BuildConversationService(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, awsCfg aws.Config, m *metrics.ConversationMetrics, logger *logging.Logger) (*conversation.Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if redisClient == nil {
		return nil, fmt.Errorf("bootstrap: redis client is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, model, err := buildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}

	classifier := intent.NewTieredClassifier(intent.NewKeywordClassifier(), nil, logger)
	if client != nil {
		classifier = intent.NewTieredClassifier(intent.NewKeywordClassifier(), intent.NewLLMClassifier(client, model), logger)
	}

	provider := fares.NewTravelportProvider(fares.TravelportConfig{
		CatalogURL:   cfg.FareBaseURL,
		OAuthURL:     cfg.FareOAuthURL,
		ClientID:     cfg.FareClientID,
		ClientSecret: cfg.FareClientSecret,
		Username:     cfg.FareUsername,
		Password:     cfg.FarePassword,
		AccessGroup:  cfg.FareAccessGroup,
	}, nil, logger)
	orchestrator := fares.NewOrchestrator(provider, cfg.FareSearchTimeout, logger, m)

	params := conversation.ServiceParams{
		Store:        conversation.NewStateStore(redisClient, nil, cfg.StateTTL),
		Classifier:   classifier,
		Extractor:    conversation.NewSlotExtractor(client, model, logger),
		Responder:    conversation.NewResponder(client, model, logger),
		Searcher:     orchestrator,
		Metrics:      m,
		Logger:       logger,
		HistoryLimit: cfg.HistoryLimit,
	}

	if cfg.OpenAIAPIKey != "" {
		whisper := openai.NewClient(cfg.OpenAIAPIKey)
		params.Transcriber = speech.NewWhisperTranscriber(whisper, nil, cfg.TwilioAccountSid, cfg.TwilioAuthToken, logger)
		logger.Info("voice transcription enabled")
	}

	if !cfg.SynthesisDisabled {
		s3Client := s3.NewFromConfig(awsCfg)
		store := speech.NewS3VoiceStore(s3Client, s3.NewPresignClient(s3Client), cfg.VoiceBucket, cfg.VoiceURLTTL, logger)
		params.Synthesizer = speech.NewPollySynthesizer(polly.NewFromConfig(awsCfg), store, logger)
		logger.Info("voice synthesis enabled", "bucket", cfg.VoiceBucket)
	}

	return conversation.NewService(params), nil
}

// buildLLMClient assembles the completion client: Bedrock primary with an
// optional Gemini fallback, either one alone, or none at all.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (llm.Client, string, error) {
	var bedrock llm.Client
	if cfg.BedrockModelID != "" {
		bedrock = llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
	}

	var gemini llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, "", fmt.Errorf("bootstrap: failed to build gemini client: %w", err)
		}
		gemini = client
	}

	switch {
	case bedrock != nil && gemini != nil:
		logger.Info("using Bedrock with Gemini fallback", "model", cfg.BedrockModelID)
		return llm.NewFallbackClient(bedrock, gemini, logger.Logger), cfg.BedrockModelID, nil
	case bedrock != nil:
		logger.Info("using Bedrock", "model", cfg.BedrockModelID)
		return bedrock, cfg.BedrockModelID, nil
	case gemini != nil:
		logger.Info("using Gemini", "model", cfg.GeminiModelID)
		return gemini, cfg.GeminiModelID, nil
	default:
		logger.Warn("no LLM configured; keyword routing and heuristic extraction only")
		return nil, "", nil
	}
}
