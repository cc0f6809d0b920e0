package bot

import (
	"context"
	"errors"

	"ctchen222/LLM-Arena/internal/agent"
	"ctchen222/LLM-Arena/internal/game"
)

var ErrNoAvailableMoves = errors.New("no available moves to select from")

// Selector is the heuristic move picker. It implements agent.MoveProvider,
// so it can play as a standalone opponent or serve as the fallback when a
// model-backed provider fails.
type Selector struct {
	name string
}

// NewSelector creates a heuristic selector with the given display name.
func NewSelector(name string) *Selector {
	return &Selector{name: name}
}

// Name returns the selector's display name.
func (s *Selector) Name() string {
	return s.name
}

// ProposeMove picks the best-scoring valid move from the snapshot.
func (s *Selector) ProposeMove(_ context.Context, snap *agent.Snapshot) (game.Move, error) {
	return SelectMove(snap.Board, snap.Mark, snap.ValidMoves)
}
