package agent

import (
	"context"
	"math/rand/v2"

	"ctchen222/LLM-Arena/internal/game"
)

// RandomAgent picks a uniformly random valid move. Useful as a baseline and
// for demo mode, where no API keys are needed.
type RandomAgent struct {
	name string
}

// NewRandomAgent creates a random agent with the given display name.
func NewRandomAgent(name string) *RandomAgent {
	return &RandomAgent{name: name}
}

// Name returns the agent's display name.
func (a *RandomAgent) Name() string {
	return a.name
}

// ProposeMove returns a random member of the valid-move list.
func (a *RandomAgent) ProposeMove(_ context.Context, snap *Snapshot) (game.Move, error) {
	if len(snap.ValidMoves) == 0 {
		return game.Move{}, ErrNoValidMoves
	}
	return snap.ValidMoves[rand.IntN(len(snap.ValidMoves))], nil
}
