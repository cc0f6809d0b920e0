package match

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ctchen222/LLM-Arena/internal/agent"
	"ctchen222/LLM-Arena/internal/bot"
	"ctchen222/LLM-Arena/internal/events"
	"ctchen222/LLM-Arena/internal/game"
)

var tracer = otel.Tracer("match-runner")

// historySize is how many recent moves are kept in the snapshot handed to
// providers.
const historySize = 5

var ErrNoMovesLeft = errors.New("no moves left on an unfinished board")

// Publisher receives live events as a game progresses. A nil publisher is
// allowed; events are then dropped.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type multiPublisher []Publisher

func (m multiPublisher) Publish(ctx context.Context, event events.Event) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CombinePublishers fans events out to every non-nil publisher. It returns
// nil when none are given.
func CombinePublishers(pubs ...Publisher) Publisher {
	var out multiPublisher
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// MoveRecord is the stored form of one applied move.
type MoveRecord struct {
	MoveNumber   int             `json:"move_number"`
	Agent        string          `json:"agent"`
	Mark         game.PlayerMark `json:"mark"`
	Move         game.Move       `json:"move"`
	Captures     []game.Move     `json:"captures"`
	XCount       int             `json:"x_count"`
	OCount       int             `json:"o_count"`
	UsedFallback bool            `json:"used_fallback"`
}

// GameRecord is the full account of one finished game.
type GameRecord struct {
	GameID        string          `json:"game_id"`
	MatchID       string          `json:"match_id"`
	GameNumber    int             `json:"game_number"`
	AgentX        string          `json:"agent_x"`
	AgentO        string          `json:"agent_o"`
	Result        game.GameResult `json:"result"`
	Winner        string          `json:"winner,omitempty"`
	XCount        int             `json:"x_count"`
	OCount        int             `json:"o_count"`
	FallbackCount int             `json:"fallback_count"`
	Moves         []MoveRecord    `json:"moves"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
}

// Options tunes a Runner.
type Options struct {
	// MoveDelay is the pause inserted after every applied move, so
	// spectators can follow along. Zero means no pause.
	MoveDelay time.Duration
}

// Runner plays complete games between two move providers. Provider failures
// and invalid proposals are absorbed by the heuristic fallback, so a game
// always runs to completion.
type Runner struct {
	fallback  *bot.Selector
	publisher Publisher
	opts      Options

	movesApplied  metric.Int64Counter
	fallbacksUsed metric.Int64Counter
}

// NewRunner creates a Runner publishing to publisher (which may be nil).
func NewRunner(publisher Publisher, opts Options) *Runner {
	meter := otel.Meter("match-runner")
	movesApplied, _ := meter.Int64Counter("arena.moves.applied")
	fallbacksUsed, _ := meter.Int64Counter("arena.moves.fallbacks")

	return &Runner{
		fallback:      bot.NewSelector("fallback"),
		publisher:     publisher,
		opts:          opts,
		movesApplied:  movesApplied,
		fallbacksUsed: fallbacksUsed,
	}
}

// PlayGame runs one game to completion, X moving first. The returned record
// is complete even when the context is cancelled mid-game; in that case the
// error reports the cancellation and the record holds the partial game.
func (r *Runner) PlayGame(ctx context.Context, matchID string, gameNumber int, agentX, agentO agent.MoveProvider) (*GameRecord, error) {
	ctx, span := tracer.Start(ctx, "PlayGame", trace.WithAttributes(
		attribute.String("match.id", matchID),
		attribute.Int("game.number", gameNumber),
		attribute.String("agent.x", agentX.Name()),
		attribute.String("agent.o", agentO.Name()),
	))
	defer span.End()

	g := game.NewGame(uuid.New().String())
	record := &GameRecord{
		GameID:     g.ID,
		MatchID:    matchID,
		GameNumber: gameNumber,
		AgentX:     agentX.Name(),
		AgentO:     agentO.Name(),
		StartedAt:  time.Now().UTC(),
	}

	r.publish(ctx, events.TypeGameStarted, events.GameStartedPayload{
		GameID:     g.ID,
		MatchID:    matchID,
		GameNumber: gameNumber,
		AgentX:     agentX.Name(),
		AgentO:     agentO.Name(),
	})

	var history []agent.HistoryEntry
	for !g.IsFull() {
		if err := ctx.Err(); err != nil {
			r.finish(ctx, g, record)
			return record, err
		}

		provider := agentX
		if g.CurrentTurn == game.PlayerO {
			provider = agentO
		}
		mark := g.CurrentTurn

		snap := r.snapshot(g, mark, history)
		move, usedFallback, err := r.decideMove(ctx, provider, snap)
		if err != nil {
			r.finish(ctx, g, record)
			return record, err
		}

		captures, err := g.ApplyMove(mark, move)
		if err != nil {
			r.finish(ctx, g, record)
			return record, err
		}

		xCount, oCount := g.PieceCounts()
		history = appendHistory(history, agent.HistoryEntry{
			Mark:   mark,
			Move:   move,
			XCount: xCount,
			OCount: oCount,
		})

		record.Moves = append(record.Moves, MoveRecord{
			MoveNumber:   g.MoveCount,
			Agent:        provider.Name(),
			Mark:         mark,
			Move:         move,
			Captures:     captures,
			XCount:       xCount,
			OCount:       oCount,
			UsedFallback: usedFallback,
		})
		if usedFallback {
			record.FallbackCount++
		}

		r.movesApplied.Add(ctx, 1, metric.WithAttributes(attribute.String("agent", provider.Name())))

		r.publish(ctx, events.TypeMoveApplied, events.MoveAppliedPayload{
			GameID:       g.ID,
			Agent:        provider.Name(),
			Mark:         mark,
			Move:         move,
			Captures:     captures,
			XCount:       xCount,
			OCount:       oCount,
			MoveNumber:   g.MoveCount,
			UsedFallback: usedFallback,
			Board:        game.BoardArrayToSlice(g.Board),
		})

		if r.opts.MoveDelay > 0 {
			select {
			case <-time.After(r.opts.MoveDelay):
			case <-ctx.Done():
			}
		}
	}

	r.finish(ctx, g, record)
	return record, nil
}

// decideMove asks the provider for a move; any error or invalid proposal is
// replaced by the heuristic fallback.
func (r *Runner) decideMove(ctx context.Context, provider agent.MoveProvider, snap *agent.Snapshot) (game.Move, bool, error) {
	move, err := provider.ProposeMove(ctx, snap)
	if err == nil && moveIn(move, snap.ValidMoves) {
		return move, false, nil
	}

	if err != nil {
		slog.WarnContext(ctx, "provider failed, using fallback", "agent", provider.Name(), "error", err)
	} else {
		slog.WarnContext(ctx, "provider proposed an invalid move, using fallback", "agent", provider.Name(), "move", move)
	}
	r.fallbacksUsed.Add(ctx, 1, metric.WithAttributes(attribute.String("agent", provider.Name())))

	move, err = r.fallback.ProposeMove(ctx, snap)
	if err != nil {
		return game.Move{}, false, ErrNoMovesLeft
	}
	return move, true, nil
}

func (r *Runner) snapshot(g *game.Game, mark game.PlayerMark, history []agent.HistoryEntry) *agent.Snapshot {
	xCount, oCount := g.PieceCounts()
	return &agent.Snapshot{
		Board:      g.Board,
		Mark:       mark,
		ValidMoves: g.ValidMoves(),
		XCount:     xCount,
		OCount:     oCount,
		History:    history,
	}
}

func (r *Runner) finish(ctx context.Context, g *game.Game, record *GameRecord) {
	record.XCount, record.OCount = g.PieceCounts()
	record.FinishedAt = time.Now().UTC()

	result, ok := g.Outcome()
	if !ok {
		return
	}
	record.Result = result
	switch result {
	case game.XWins:
		record.Winner = record.AgentX
	case game.OWins:
		record.Winner = record.AgentO
	}

	r.publish(ctx, events.TypeGameFinished, events.GameFinishedPayload{
		GameID:  record.GameID,
		MatchID: record.MatchID,
		Result:  result,
		Winner:  record.Winner,
		XCount:  record.XCount,
		OCount:  record.OCount,
	})
}

func (r *Runner) publish(ctx context.Context, eventType string, payload any) {
	if r.publisher == nil {
		return
	}
	event, err := events.New(eventType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode event", "type", eventType, "error", err)
		return
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}

func appendHistory(history []agent.HistoryEntry, entry agent.HistoryEntry) []agent.HistoryEntry {
	history = append(history, entry)
	if len(history) > historySize {
		history = history[len(history)-historySize:]
	}
	return history
}

func moveIn(m game.Move, list []game.Move) bool {
	for _, item := range list {
		if item == m {
			return true
		}
	}
	return false
}
