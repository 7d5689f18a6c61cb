package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Conversation state
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	StateTTL      time.Duration
	HistoryLimit  int

	// LLM providers
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	BedrockModelID      string
	GeminiAPIKey        string
	GeminiModelID       string
	OpenAIAPIKey        string

	// Fare provider
	FareBaseURL       string
	FareOAuthURL      string
	FareClientID      string
	FareClientSecret  string
	FareUsername      string
	FarePassword      string
	FareAccessGroup   string
	FareSearchTimeout time.Duration

	// Voice
	VoiceBucket       string
	VoiceURLTTL       time.Duration
	SynthesisDisabled bool

	// WhatsApp webhook
	TwilioAccountSid string
	TwilioAuthToken  string
	TwilioWebhookURL string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		StateTTL:      getEnvAsDuration("CONVERSATION_STATE_TTL", 24*time.Hour),
		HistoryLimit:  getEnvAsInt("CONVERSATION_HISTORY_LIMIT", 20),

		AWSRegion:           getEnv("AWS_REGION", "eu-north-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:       getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),

		FareBaseURL:       getEnv("FARE_BASE_URL", "https://api.pp.travelport.com/11/air"),
		FareOAuthURL:      getEnv("FARE_OAUTH_URL", "https://oauth.pp.travelport.com/oauth/oauth20/token"),
		FareClientID:      getEnv("FARE_CLIENT_ID", ""),
		FareClientSecret:  getEnv("FARE_CLIENT_SECRET", ""),
		FareUsername:      getEnv("FARE_USERNAME", ""),
		FarePassword:      getEnv("FARE_PASSWORD", ""),
		FareAccessGroup:   getEnv("FARE_ACCESS_GROUP", ""),
		FareSearchTimeout: getEnvAsDuration("FARE_SEARCH_TIMEOUT", 45*time.Second),

		VoiceBucket:       getEnv("VOICE_BUCKET", "tazaticket"),
		VoiceURLTTL:       getEnvAsDuration("VOICE_URL_TTL", time.Hour),
		SynthesisDisabled: getEnvAsBool("SYNTHESIS_DISABLED", false),

		TwilioAccountSid: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWebhookURL: strings.TrimSpace(getEnv("TWILIO_WEBHOOK_URL", "")),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
