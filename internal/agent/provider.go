package agent

import (
	"context"
	"errors"

	"ctchen222/LLM-Arena/internal/game"
)

//go:generate mockgen -destination=mocks/provider.go -package=mocks ctchen222/LLM-Arena/internal/agent MoveProvider

// ErrNoValidMoves is returned when a provider is asked to move on a full board.
var ErrNoValidMoves = errors.New("no valid moves available")

// ErrUnparsableReply is returned when a model reply contains no usable move.
var ErrUnparsableReply = errors.New("reply contains no valid move")

// MoveProvider produces a move for the current position. Implementations may
// call out to external APIs; the match runner treats any error (or an invalid
// proposal) as the trigger for the heuristic fallback, never as fatal.
type MoveProvider interface {
	Name() string
	ProposeMove(ctx context.Context, snap *Snapshot) (game.Move, error)
}

// Snapshot is the immutable view of a game handed to a provider for one turn.
type Snapshot struct {
	Board      game.Board
	Mark       game.PlayerMark
	ValidMoves []game.Move
	XCount     int
	OCount     int
	History    []HistoryEntry
}

// HistoryEntry records one applied move, kept for prompt context.
type HistoryEntry struct {
	Mark   game.PlayerMark
	Move   game.Move
	XCount int
	OCount int
}

// CountCaptures returns how many opponent pieces placing mark at m would
// flip. Used both for prompt analysis and for heuristic scoring.
func CountCaptures(board game.Board, mark game.PlayerMark, m game.Move) int {
	opponent := game.Opponent(mark)
	captures := 0
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		r, c := m.Row+d[0], m.Col+d[1]
		if r < 0 || r >= game.BoardSize || c < 0 || c >= game.BoardSize {
			continue
		}
		if board[r][c] == opponent {
			captures++
		}
	}
	return captures
}
