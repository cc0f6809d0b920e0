package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"ctchen222/LLM-Arena/internal/api/models"
	"ctchen222/LLM-Arena/internal/match"
	arenarepo "ctchen222/LLM-Arena/internal/repository"
	"ctchen222/LLM-Arena/internal/tournament"
)

// Tournament run states.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusFailed   = "failed"
)

var ErrRunNotFound = errors.New("tournament run not found")

// ArenaService answers spectator queries and launches tournaments.
type ArenaService interface {
	Leaderboard(ctx context.Context) ([]tournament.Standing, error)
	ListMatches(ctx context.Context, limit int) ([]arenarepo.MatchSummary, error)
	GetGame(ctx context.Context, gameID string) (*match.GameRecord, error)
	LiveGames(ctx context.Context) ([]*arenarepo.LiveGame, error)
	StartTournament(ctx context.Context, req *models.TournamentRequest) (*models.TournamentStatus, error)
	TournamentStatus(runID string) (*models.TournamentStatus, error)
}

type arenaService struct {
	records arenarepo.RecordRepository
	live    arenarepo.LiveGameRepository
	factory *tournament.Factory
	runner  tournament.GameRunner
	pub     tournament.Publisher

	mu   sync.RWMutex
	runs map[string]*models.TournamentStatus
}

// NewArenaService creates an ArenaService. live and pub may be nil when the
// server runs without Redis.
func NewArenaService(records arenarepo.RecordRepository, live arenarepo.LiveGameRepository, factory *tournament.Factory, runner tournament.GameRunner, pub tournament.Publisher) ArenaService {
	return &arenaService{
		records: records,
		live:    live,
		factory: factory,
		runner:  runner,
		pub:     pub,
		runs:    make(map[string]*models.TournamentStatus),
	}
}

func (s *arenaService) Leaderboard(ctx context.Context) ([]tournament.Standing, error) {
	return s.records.Leaderboard(ctx)
}

func (s *arenaService) ListMatches(ctx context.Context, limit int) ([]arenarepo.MatchSummary, error) {
	return s.records.ListMatches(ctx, limit)
}

func (s *arenaService) GetGame(ctx context.Context, gameID string) (*match.GameRecord, error) {
	return s.records.FindGameByID(ctx, gameID)
}

func (s *arenaService) LiveGames(ctx context.Context) ([]*arenarepo.LiveGame, error) {
	if s.live == nil {
		return nil, nil
	}

	ids, err := s.live.ListLiveIDs(ctx)
	if err != nil {
		return nil, err
	}

	games := make([]*arenarepo.LiveGame, 0, len(ids))
	for _, id := range ids {
		g, err := s.live.FindByID(ctx, id)
		if errors.Is(err, arenarepo.ErrGameNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

// StartTournament validates the request, builds the agents and launches the
// round-robin in the background. The returned status can be polled by run ID.
func (s *arenaService) StartTournament(_ context.Context, req *models.TournamentRequest) (*models.TournamentStatus, error) {
	providers, err := s.factory.BuildAll(req.Agents)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}

	status := &models.TournamentStatus{
		RunID:  uuid.New().String(),
		Status: StatusRunning,
		Agents: names,
	}
	s.mu.Lock()
	s.runs[status.RunID] = status
	s.mu.Unlock()

	tour := tournament.New(s.runner, s.records, s.pub, req.GamesPerPair)
	accepted := *status

	// Detached from the request context; the run outlives the HTTP call.
	go func() {
		ctx := context.Background()
		standings, _, err := tour.Run(ctx, providers)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			status.Status = StatusFailed
			status.Error = err.Error()
			slog.Error("tournament run failed", "run_id", status.RunID, "error", err)
		} else {
			status.Status = StatusFinished
		}
		if standings != nil {
			status.Standings = standings.Leaderboard()
		}
	}()

	return &accepted, nil
}

func (s *arenaService) TournamentStatus(runID string) (*models.TournamentStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.runs[runID]
	if !ok {
		return nil, ErrRunNotFound
	}
	copied := *status
	return &copied, nil
}
