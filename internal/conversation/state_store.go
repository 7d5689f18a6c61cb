package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultStateTTL = 24 * time.Hour

// StateStore persists per-user dialogue state in redis. Every save refreshes
// the TTL, so a user who keeps talking never loses their slots mid-flow.
type StateStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

func NewStateStore(redisClient *redis.Client, tracer trace.Tracer, ttl time.Duration) *StateStore {
	if redisClient == nil {
		panic("conversation: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("concierge.internal.conversation.state")
	}
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &StateStore{
		redis:  redisClient,
		tracer: tracer,
		ttl:    ttl,
	}
}

// Load returns the stored state for a user, or a fresh idle state when the
// key is missing or expired.
func (s *StateStore) Load(ctx context.Context, userID string) (State, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_state")
	defer span.End()

	data, err := s.redis.Get(ctx, stateKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewState(userID), nil
		}
		span.RecordError(err)
		return State{}, fmt.Errorf("conversation: failed to load state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return State{}, fmt.Errorf("conversation: failed to decode state: %w", err)
	}
	if state.UserID == "" {
		state.UserID = userID
	}
	return state, nil
}

// Save persists the state and refreshes its TTL.
func (s *StateStore) Save(ctx context.Context, state State) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_state")
	defer span.End()

	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal state: %w", err)
	}
	if err := s.redis.Set(ctx, stateKey(state.UserID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist state: %w", err)
	}
	return nil
}

// Delete removes a user's state outright.
func (s *StateStore) Delete(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "conversation.delete_state")
	defer span.End()

	if err := s.redis.Del(ctx, stateKey(userID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to delete state: %w", err)
	}
	return nil
}

func stateKey(userID string) string {
	return fmt.Sprintf("conversation_state:%s", userID)
}
