package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"ctchen222/LLM-Arena/internal/game"
	"ctchen222/LLM-Arena/internal/match"
	"ctchen222/LLM-Arena/internal/tournament"
)

// MatchSummary is a row from the matches table, without per-game detail.
type MatchSummary struct {
	MatchID    string    `db:"id" json:"match_id"`
	Agent1     string    `db:"agent1" json:"agent1"`
	Agent2     string    `db:"agent2" json:"agent2"`
	Wins1      int       `db:"wins1" json:"wins1"`
	Wins2      int       `db:"wins2" json:"wins2"`
	Draws      int       `db:"draws" json:"draws"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

// RecordRepository persists finished games and matches and answers the
// historical queries the API serves. It satisfies tournament.Store.
type RecordRepository interface {
	SaveGame(ctx context.Context, record *match.GameRecord) error
	SaveMatch(ctx context.Context, result *tournament.MatchResult) error
	FindGameByID(ctx context.Context, gameID string) (*match.GameRecord, error)
	ListMatches(ctx context.Context, limit int) ([]MatchSummary, error)
	Leaderboard(ctx context.Context) ([]tournament.Standing, error)
}

type sqliteRecordRepository struct {
	pool *sqlx.DB
}

// NewRecordRepository creates a SQLite-based RecordRepository.
func NewRecordRepository(pool *sqlx.DB) RecordRepository {
	return &sqliteRecordRepository{pool: pool}
}

type gameRow struct {
	ID            string    `db:"id"`
	MatchID       string    `db:"match_id"`
	GameNumber    int       `db:"game_number"`
	AgentX        string    `db:"agent_x"`
	AgentO        string    `db:"agent_o"`
	Result        string    `db:"result"`
	Winner        string    `db:"winner"`
	XCount        int       `db:"x_count"`
	OCount        int       `db:"o_count"`
	FallbackCount int       `db:"fallback_count"`
	Moves         string    `db:"moves"`
	StartedAt     time.Time `db:"started_at"`
	FinishedAt    time.Time `db:"finished_at"`
}

// SaveGame inserts one finished game, moves serialized as a JSON column.
func (r *sqliteRecordRepository) SaveGame(ctx context.Context, record *match.GameRecord) error {
	ctx, span := tracer.Start(ctx, "RecordRepository.SaveGame")
	defer span.End()

	moves, err := json.Marshal(record.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}

	_, err = r.pool.ExecContext(ctx, `
		INSERT INTO games (id, match_id, game_number, agent_x, agent_o, result, winner,
			x_count, o_count, fallback_count, moves, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.GameID, record.MatchID, record.GameNumber, record.AgentX, record.AgentO,
		string(record.Result), record.Winner, record.XCount, record.OCount,
		record.FallbackCount, string(moves), record.StartedAt, record.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

// SaveMatch inserts one finished match summary.
func (r *sqliteRecordRepository) SaveMatch(ctx context.Context, result *tournament.MatchResult) error {
	ctx, span := tracer.Start(ctx, "RecordRepository.SaveMatch")
	defer span.End()

	_, err := r.pool.ExecContext(ctx, `
		INSERT INTO matches (id, agent1, agent2, wins1, wins2, draws, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID, result.Agent1, result.Agent2,
		result.Wins1, result.Wins2, result.Draws,
		result.StartedAt, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

// FindGameByID loads one stored game, moves included.
func (r *sqliteRecordRepository) FindGameByID(ctx context.Context, gameID string) (*match.GameRecord, error) {
	ctx, span := tracer.Start(ctx, "RecordRepository.FindGameByID")
	defer span.End()

	var row gameRow
	err := r.pool.GetContext(ctx, &row, `SELECT * FROM games WHERE id = ?`, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}

	var moves []match.MoveRecord
	if err := json.Unmarshal([]byte(row.Moves), &moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}

	return &match.GameRecord{
		GameID:        row.ID,
		MatchID:       row.MatchID,
		GameNumber:    row.GameNumber,
		AgentX:        row.AgentX,
		AgentO:        row.AgentO,
		Result:        game.GameResult(row.Result),
		Winner:        row.Winner,
		XCount:        row.XCount,
		OCount:        row.OCount,
		FallbackCount: row.FallbackCount,
		Moves:         moves,
		StartedAt:     row.StartedAt,
		FinishedAt:    row.FinishedAt,
	}, nil
}

// ListMatches returns the most recent matches, newest first.
func (r *sqliteRecordRepository) ListMatches(ctx context.Context, limit int) ([]MatchSummary, error) {
	ctx, span := tracer.Start(ctx, "RecordRepository.ListMatches")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}

	summaries := []MatchSummary{}
	err := r.pool.SelectContext(ctx, &summaries, `
		SELECT id, agent1, agent2, wins1, wins2, draws, started_at, finished_at
		FROM matches ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return summaries, nil
}

// Leaderboard rebuilds standings from every stored game.
func (r *sqliteRecordRepository) Leaderboard(ctx context.Context) ([]tournament.Standing, error) {
	ctx, span := tracer.Start(ctx, "RecordRepository.Leaderboard")
	defer span.End()

	var rows []struct {
		AgentX string `db:"agent_x"`
		AgentO string `db:"agent_o"`
		Winner string `db:"winner"`
	}
	err := r.pool.SelectContext(ctx, &rows, `SELECT agent_x, agent_o, winner FROM games`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for leaderboard: %w", err)
	}

	standings := tournament.NewStandings()
	for _, row := range rows {
		standings.RecordGame(row.AgentX, row.AgentO, row.Winner)
	}
	return standings.Leaderboard(), nil
}
