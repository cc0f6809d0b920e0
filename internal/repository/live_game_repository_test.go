package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"ctchen222/LLM-Arena/internal/events"
	"ctchen222/LLM-Arena/internal/game"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: strings.TrimPrefix(uri, "redis://")})
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { client.Close() })
	return client
}

func mustEvent(t *testing.T, eventType string, payload any) events.Event {
	t.Helper()
	event, err := events.New(eventType, payload)
	require.NoError(t, err)
	return event
}

func TestLiveGameRepository_GameLifecycle(t *testing.T) {
	client := setupRedis(t)
	repo := NewLiveGameRepository(client)
	ctx := context.Background()

	started := mustEvent(t, events.TypeGameStarted, events.GameStartedPayload{
		GameID: "game-1", MatchID: "match-1", GameNumber: 1, AgentX: "Llama", AgentO: "Gemini",
	})
	require.NoError(t, repo.Publish(ctx, started))

	ids, err := repo.ListLiveIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"game-1"}, ids)

	live, err := repo.FindByID(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", live.Status)
	assert.Equal(t, "Llama", live.AgentX)
	assert.Len(t, live.Board, game.BoardSize)

	board := game.Board{}
	board[3][3] = game.PlayerX
	moved := mustEvent(t, events.TypeMoveApplied, events.MoveAppliedPayload{
		GameID: "game-1", Agent: "Llama", Mark: game.PlayerX,
		Move: game.Move{Row: 3, Col: 3}, XCount: 1, MoveNumber: 1,
		Board: game.BoardArrayToSlice(board),
	})
	require.NoError(t, repo.Publish(ctx, moved))

	live, err = repo.FindByID(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, 1, live.XCount)
	assert.Equal(t, 1, live.MoveCount)
	assert.Equal(t, game.PlayerX, live.Board[3][3])

	finished := mustEvent(t, events.TypeGameFinished, events.GameFinishedPayload{
		GameID: "game-1", MatchID: "match-1", Result: game.XWins, Winner: "Llama", XCount: 34, OCount: 30,
	})
	require.NoError(t, repo.Publish(ctx, finished))

	ids, err = repo.ListLiveIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	live, err = repo.FindByID(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "finished", live.Status)
	assert.Equal(t, game.XWins, live.Result)
	assert.Equal(t, "Llama", live.Winner)
}

func TestLiveGameRepository_PublishesOnChannel(t *testing.T) {
	client := setupRedis(t)
	repo := NewLiveGameRepository(client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, events.EventsChannel)
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	started := mustEvent(t, events.TypeGameStarted, events.GameStartedPayload{
		GameID: "game-2", MatchID: "match-1", AgentX: "A", AgentO: "B",
	})
	require.NoError(t, repo.Publish(ctx, started))

	select {
	case msg := <-sub.Channel():
		var event events.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, events.TypeGameStarted, event.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestLiveGameRepository_FindByID_NotFound(t *testing.T) {
	client := setupRedis(t)
	repo := NewLiveGameRepository(client)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}
