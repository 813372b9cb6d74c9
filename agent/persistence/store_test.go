package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) *RedisTranscriptStore {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := NewRedisTranscriptStore(RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testStores(t *testing.T) map[string]TranscriptStore {
	return map[string]TranscriptStore{
		"memory": NewMemoryTranscriptStore(),
		"redis":  setupRedisStore(t),
	}
}

func TestTranscriptStore_AppendAndHistory(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Append(ctx, &Exchange{
				NegotiationID: "neg-1", Role: "Helpful", Kind: KindPropose,
				Input: "current best plan", Response: `{"proposal": "p1"}`,
			}))
			require.NoError(t, store.Append(ctx, &Exchange{
				NegotiationID: "neg-1", Role: "Helpful", Kind: KindDeclare,
				Input: "improved plan", Response: `{"objection": null}`,
			}))
			require.NoError(t, store.Append(ctx, &Exchange{
				NegotiationID: "neg-1", Role: "Honest", Kind: KindDeclare,
				Input: "improved plan", Response: `{"objection": "misleading"}`,
			}))

			history, err := store.History(ctx, "neg-1", "Helpful", 0)
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, KindPropose, history[0].Kind)
			assert.Equal(t, KindDeclare, history[1].Kind)
			assert.NotEmpty(t, history[0].ID)
			assert.False(t, history[0].CreatedAt.IsZero())

			other, err := store.History(ctx, "neg-1", "Honest", 0)
			require.NoError(t, err)
			require.Len(t, other, 1)
			assert.Contains(t, other[0].Response, "misleading")
		})
	}
}

func TestTranscriptStore_HistoryLimit(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				require.NoError(t, store.Append(ctx, &Exchange{
					NegotiationID: "neg-2", Role: "Harmless", Kind: KindDeclare,
					Response: string(rune('a' + i)),
				}))
			}

			history, err := store.History(ctx, "neg-2", "Harmless", 2)
			require.NoError(t, err)
			require.Len(t, history, 2)
			// Most recent two, oldest first.
			assert.Equal(t, "d", history[0].Response)
			assert.Equal(t, "e", history[1].Response)
		})
	}
}

func TestTranscriptStore_NilExchange(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Append(context.Background(), nil), ErrInvalidInput)
		})
	}
}

func TestTranscriptStore_EmptyHistory(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			history, err := store.History(context.Background(), "missing", "nobody", 0)
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestNewRedisTranscriptStore_BadAddr(t *testing.T) {
	t.Parallel()
	_, err := NewRedisTranscriptStore(RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
