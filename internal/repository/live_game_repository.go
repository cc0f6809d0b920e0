package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"

	"ctchen222/LLM-Arena/internal/events"
	"ctchen222/LLM-Arena/internal/game"
)

var tracer = otel.Tracer("repository.arena")

var ErrGameNotFound = errors.New("game not found")

// Redis hash fields for a live game.
const (
	fieldMatchID   = "match_id"
	fieldAgentX    = "agent_x"
	fieldAgentO    = "agent_o"
	fieldBoard     = "board"
	fieldXCount    = "x_count"
	fieldOCount    = "o_count"
	fieldMoveCount = "move_count"
	fieldStatus    = "status"
	fieldResult    = "result"
	fieldWinner    = "winner"
)

const (
	liveGamesKey = "arena:games:live"

	// finishedGameTTL keeps a finished game readable for a while after the
	// live set drops it.
	finishedGameTTL = time.Hour
)

// LiveGame is the spectator-facing view of a running or recently finished game.
type LiveGame struct {
	GameID    string              `json:"game_id"`
	MatchID   string              `json:"match_id"`
	AgentX    string              `json:"agent_x"`
	AgentO    string              `json:"agent_o"`
	Board     [][]game.PlayerMark `json:"board"`
	XCount    int                 `json:"x_count"`
	OCount    int                 `json:"o_count"`
	MoveCount int                 `json:"move_count"`
	Status    string              `json:"status"`
	Result    game.GameResult     `json:"result,omitempty"`
	Winner    string              `json:"winner,omitempty"`
}

// LiveGameRepository keeps the current state of running games in Redis and
// fans events out on the pub/sub channel. It satisfies match.Publisher.
type LiveGameRepository interface {
	Publish(ctx context.Context, event events.Event) error
	FindByID(ctx context.Context, gameID string) (*LiveGame, error)
	ListLiveIDs(ctx context.Context) ([]string, error)
}

type redisLiveGameRepository struct {
	rdb *redis.Client
}

// NewLiveGameRepository creates a Redis-based LiveGameRepository.
func NewLiveGameRepository(rdb *redis.Client) LiveGameRepository {
	return &redisLiveGameRepository{rdb: rdb}
}

// Publish updates the stored game state according to the event, then
// broadcasts the event on the events channel.
func (r *redisLiveGameRepository) Publish(ctx context.Context, event events.Event) error {
	ctx, span := tracer.Start(ctx, "LiveGameRepository.Publish")
	defer span.End()

	switch event.Type {
	case events.TypeGameStarted:
		var p events.GameStartedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		if err := r.createGame(ctx, &p); err != nil {
			return err
		}

	case events.TypeMoveApplied:
		var p events.MoveAppliedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		if err := r.updateGame(ctx, &p); err != nil {
			return err
		}

	case events.TypeGameFinished:
		var p events.GameFinishedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		if err := r.finishGame(ctx, &p); err != nil {
			return err
		}
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return r.rdb.Publish(ctx, events.EventsChannel, raw).Err()
}

func (r *redisLiveGameRepository) createGame(ctx context.Context, p *events.GameStartedPayload) error {
	board := game.BoardArrayToSlice(game.Board{})
	boardJSON, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal initial board: %w", err)
	}

	pipe := r.rdb.Pipeline()
	key := gameKey(p.GameID)
	pipe.HSet(ctx, key, fieldMatchID, p.MatchID)
	pipe.HSet(ctx, key, fieldAgentX, p.AgentX)
	pipe.HSet(ctx, key, fieldAgentO, p.AgentO)
	pipe.HSet(ctx, key, fieldBoard, boardJSON)
	pipe.HSet(ctx, key, fieldXCount, 0)
	pipe.HSet(ctx, key, fieldOCount, 0)
	pipe.HSet(ctx, key, fieldMoveCount, 0)
	pipe.HSet(ctx, key, fieldStatus, "in_progress")
	pipe.SAdd(ctx, liveGamesKey, p.GameID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create live game in redis: %w", err)
	}
	return nil
}

func (r *redisLiveGameRepository) updateGame(ctx context.Context, p *events.MoveAppliedPayload) error {
	boardJSON, err := json.Marshal(p.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	pipe := r.rdb.Pipeline()
	key := gameKey(p.GameID)
	pipe.HSet(ctx, key, fieldBoard, boardJSON)
	pipe.HSet(ctx, key, fieldXCount, p.XCount)
	pipe.HSet(ctx, key, fieldOCount, p.OCount)
	pipe.HSet(ctx, key, fieldMoveCount, p.MoveNumber)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update live game in redis: %w", err)
	}
	return nil
}

func (r *redisLiveGameRepository) finishGame(ctx context.Context, p *events.GameFinishedPayload) error {
	pipe := r.rdb.Pipeline()
	key := gameKey(p.GameID)
	pipe.HSet(ctx, key, fieldStatus, "finished")
	pipe.HSet(ctx, key, fieldResult, string(p.Result))
	pipe.HSet(ctx, key, fieldWinner, p.Winner)
	pipe.SRem(ctx, liveGamesKey, p.GameID)
	pipe.Expire(ctx, key, finishedGameTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to finish live game in redis: %w", err)
	}
	return nil
}

// FindByID retrieves the current state of a game from Redis.
func (r *redisLiveGameRepository) FindByID(ctx context.Context, gameID string) (*LiveGame, error) {
	ctx, span := tracer.Start(ctx, "LiveGameRepository.FindByID")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, gameKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get live game from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrGameNotFound
	}

	var board [][]game.PlayerMark
	if err := json.Unmarshal([]byte(data[fieldBoard]), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	xCount, _ := strconv.Atoi(data[fieldXCount])
	oCount, _ := strconv.Atoi(data[fieldOCount])
	moveCount, _ := strconv.Atoi(data[fieldMoveCount])

	return &LiveGame{
		GameID:    gameID,
		MatchID:   data[fieldMatchID],
		AgentX:    data[fieldAgentX],
		AgentO:    data[fieldAgentO],
		Board:     board,
		XCount:    xCount,
		OCount:    oCount,
		MoveCount: moveCount,
		Status:    data[fieldStatus],
		Result:    game.GameResult(data[fieldResult]),
		Winner:    data[fieldWinner],
	}, nil
}

// ListLiveIDs returns the IDs of games currently in progress.
func (r *redisLiveGameRepository) ListLiveIDs(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "LiveGameRepository.ListLiveIDs")
	defer span.End()

	return r.rdb.SMembers(ctx, liveGamesKey).Result()
}

func gameKey(gameID string) string {
	return fmt.Sprintf("arena:game:%s", gameID)
}
