package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazaticket/flight-concierge/internal/flight"
)

func newTestStore(t *testing.T, ttl time.Duration) (*StateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStateStore(client, nil, ttl), mr
}

func TestStateStoreLoadMissingReturnsFreshState(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	state, err := store.Load(context.Background(), "whatsapp:+4411111")

	require.NoError(t, err)
	assert.Equal(t, "whatsapp:+4411111", state.UserID)
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.True(t, state.Slots.IsZero())
}

func TestStateStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	state := NewState("user-1")
	state.Phase = PhaseCollectingSlots
	state.Language = "ur-PK"
	state.Slots = flight.Query{Origin: "LHE", Destination: "DXB"}
	state.AppendTurn("lahore to dubai", "📅 What date would you like to depart?", 20)

	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseCollectingSlots, loaded.Phase)
	assert.Equal(t, "ur-PK", loaded.Language)
	assert.Equal(t, "LHE", loaded.Slots.Origin)
	assert.Len(t, loaded.History, 2)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestStateStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	state := NewState("user-1")
	state.Phase = PhaseCollectingSlots
	require.NoError(t, store.Save(ctx, state))

	mr.FastForward(2 * time.Minute)

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, loaded.Phase)
}

func TestStateStoreSaveRefreshesTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	state := NewState("user-1")
	state.Phase = PhaseCollectingSlots
	require.NoError(t, store.Save(ctx, state))

	mr.FastForward(45 * time.Second)
	require.NoError(t, store.Save(ctx, state))
	mr.FastForward(45 * time.Second)

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseCollectingSlots, loaded.Phase)
}

func TestStateStoreDelete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	state := NewState("user-1")
	state.Phase = PhaseChatting
	require.NoError(t, store.Save(ctx, state))
	require.NoError(t, store.Delete(ctx, "user-1"))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, loaded.Phase)
}
