package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"

	appconfig "github.com/tazaticket/flight-concierge/internal/config"
)

func TestBuildConversationServiceRequiresConfig(t *testing.T) {
	if _, err := BuildConversationService(context.Background(), nil, nil, aws.Config{}, nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestBuildConversationServiceRequiresRedis(t *testing.T) {
	cfg := &appconfig.Config{}
	if _, err := BuildConversationService(context.Background(), cfg, nil, aws.Config{}, nil, nil); err == nil {
		t.Fatalf("expected error for nil redis client")
	}
}

func TestBuildConversationServiceWithoutLLM(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{
		RedisAddr:         mr.Addr(),
		StateTTL:          time.Hour,
		HistoryLimit:      10,
		SynthesisDisabled: true,
	}
	redisClient := BuildRedisClient(context.Background(), cfg, nil, true)
	if redisClient == nil {
		t.Fatalf("expected redis client")
	}

	svc, err := BuildConversationService(context.Background(), cfg, redisClient, aws.Config{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatalf("expected service")
	}
}

func TestBuildRedisClientDisabledWithoutAddr(t *testing.T) {
	cfg := &appconfig.Config{}
	if client := BuildRedisClient(context.Background(), cfg, nil, false); client != nil {
		t.Fatalf("expected nil client when no address is configured")
	}
}

func TestBuildRedisClientVerifyFailure(t *testing.T) {
	cfg := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
	if client := BuildRedisClient(context.Background(), cfg, nil, true); client != nil {
		t.Fatalf("expected nil client when ping fails")
	}
}
