package bot

import (
	"math/rand/v2"

	"ctchen222/LLM-Arena/internal/agent"
	"ctchen222/LLM-Arena/internal/game"
)

const (
	cornerScore       = 100
	nearCornerPenalty = -50
	edgeScore         = 30
	captureWeight     = 20
	centerBonus       = 15

	// earlyGameEmpty is the empty-cell count above which the opening
	// center bonus still applies.
	earlyGameEmpty = 40
)

// ScoreMove rates a candidate move on the board as it stands before the
// move is played. Higher is better.
func ScoreMove(board game.Board, mark game.PlayerMark, m game.Move) int {
	score := 0

	switch {
	case agent.IsCorner(m):
		score += cornerScore
	case agent.IsNextToCorner(m):
		score += nearCornerPenalty
	case agent.IsEdge(m):
		score += edgeScore
	}

	score += captureWeight * agent.CountCaptures(board, mark, m)

	if game.CountEmpty(board) > earlyGameEmpty && agent.CenterDistance(m) < 2 {
		score += centerBonus
	}

	return score
}

// SelectMove returns the highest-scoring candidate, breaking ties uniformly
// at random.
func SelectMove(board game.Board, mark game.PlayerMark, candidates []game.Move) (game.Move, error) {
	if len(candidates) == 0 {
		return game.Move{}, ErrNoAvailableMoves
	}

	best := []game.Move{candidates[0]}
	bestScore := ScoreMove(board, mark, candidates[0])
	for _, m := range candidates[1:] {
		score := ScoreMove(board, mark, m)
		switch {
		case score > bestScore:
			bestScore = score
			best = best[:0]
			best = append(best, m)
		case score == bestScore:
			best = append(best, m)
		}
	}

	return best[rand.IntN(len(best))], nil
}
