package tournament

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ctchen222/LLM-Arena/internal/agent"
	"ctchen222/LLM-Arena/internal/events"
	"ctchen222/LLM-Arena/internal/game"
	"ctchen222/LLM-Arena/internal/match"
)

var ErrNotEnoughAgents = errors.New("a tournament needs at least two agents")

// Store persists finished games and matches. Implementations live in the
// repository package; a nil Store skips persistence.
type Store interface {
	SaveGame(ctx context.Context, record *match.GameRecord) error
	SaveMatch(ctx context.Context, result *MatchResult) error
}

// GameRunner plays one game between two providers. *match.Runner satisfies it.
type GameRunner interface {
	PlayGame(ctx context.Context, matchID string, gameNumber int, agentX, agentO agent.MoveProvider) (*match.GameRecord, error)
}

// MatchResult summarizes one head-to-head series.
type MatchResult struct {
	MatchID    string              `json:"match_id"`
	Agent1     string              `json:"agent1"`
	Agent2     string              `json:"agent2"`
	Wins1      int                 `json:"wins1"`
	Wins2      int                 `json:"wins2"`
	Draws      int                 `json:"draws"`
	Games      []*match.GameRecord `json:"games"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

// Publisher mirrors match.Publisher for tournament-level events.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Tournament runs a round-robin series between a set of agents. Every
// ordered pair plays, so each pairing appears twice with colors swapped.
type Tournament struct {
	runner       GameRunner
	store        Store
	publisher    Publisher
	gamesPerPair int
}

// New creates a tournament driver. store and publisher may be nil.
func New(runner GameRunner, store Store, publisher Publisher, gamesPerPair int) *Tournament {
	if gamesPerPair < 1 {
		gamesPerPair = 1
	}
	return &Tournament{
		runner:       runner,
		store:        store,
		publisher:    publisher,
		gamesPerPair: gamesPerPair,
	}
}

// RunMatch plays a series of games between two agents, agent1 as X.
func (t *Tournament) RunMatch(ctx context.Context, agent1, agent2 agent.MoveProvider) (*MatchResult, error) {
	result := &MatchResult{
		MatchID:   uuid.New().String(),
		Agent1:    agent1.Name(),
		Agent2:    agent2.Name(),
		StartedAt: time.Now().UTC(),
	}

	slog.InfoContext(ctx, "match starting",
		"match_id", result.MatchID, "agent1", result.Agent1, "agent2", result.Agent2, "games", t.gamesPerPair)

	for i := 1; i <= t.gamesPerPair; i++ {
		record, err := t.runner.PlayGame(ctx, result.MatchID, i, agent1, agent2)
		if err != nil {
			return result, fmt.Errorf("game %d of match %s: %w", i, result.MatchID, err)
		}

		switch record.Result {
		case game.XWins:
			result.Wins1++
		case game.OWins:
			result.Wins2++
		case game.Draw:
			result.Draws++
		}
		result.Games = append(result.Games, record)

		if t.store != nil {
			if err := t.store.SaveGame(ctx, record); err != nil {
				slog.ErrorContext(ctx, "failed to persist game", "game_id", record.GameID, "error", err)
			}
		}
	}

	result.FinishedAt = time.Now().UTC()

	if t.store != nil {
		if err := t.store.SaveMatch(ctx, result); err != nil {
			slog.ErrorContext(ctx, "failed to persist match", "match_id", result.MatchID, "error", err)
		}
	}

	t.publishMatchFinished(ctx, result)

	slog.InfoContext(ctx, "match finished",
		"match_id", result.MatchID,
		"agent1", result.Agent1, "wins1", result.Wins1,
		"agent2", result.Agent2, "wins2", result.Wins2,
		"draws", result.Draws)

	return result, nil
}

// Run plays every ordered pairing of agents and returns the final standings.
func (t *Tournament) Run(ctx context.Context, agents []agent.MoveProvider) (*Standings, []*MatchResult, error) {
	if len(agents) < 2 {
		return nil, nil, ErrNotEnoughAgents
	}

	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name()
	}
	standings := NewStandings(names...)

	var results []*MatchResult
	for i, a1 := range agents {
		for j, a2 := range agents {
			if i == j {
				continue
			}

			result, err := t.RunMatch(ctx, a1, a2)
			if err != nil {
				return standings, results, err
			}
			results = append(results, result)

			for _, record := range result.Games {
				standings.RecordGame(record.AgentX, record.AgentO, record.Winner)
			}
		}
	}

	return standings, results, nil
}

func (t *Tournament) publishMatchFinished(ctx context.Context, result *MatchResult) {
	if t.publisher == nil {
		return
	}
	event, err := events.New(events.TypeMatchFinished, events.MatchFinishedPayload{
		MatchID: result.MatchID,
		Agent1:  result.Agent1,
		Agent2:  result.Agent2,
		Wins1:   result.Wins1,
		Wins2:   result.Wins2,
		Draws:   result.Draws,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode match event", "error", err)
		return
	}
	if err := t.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish match event", "error", err)
	}
}
