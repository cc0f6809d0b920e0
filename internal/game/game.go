package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// GameResult is the final outcome of a finished game.
type GameResult string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Game results
	XWins GameResult = "X"
	OWins GameResult = "O"
	Draw  GameResult = "Draw"

	// BoardSize is the side length of the square grid.
	BoardSize = 8
)

var (
	ErrOutOfBounds  = errors.New("move is outside the board")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrNotYourTurn  = errors.New("it's not your turn")
)

// Move is a 0-indexed (row, col) board coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is the 8x8 grid of cell ownership.
type Board [BoardSize][BoardSize]PlayerMark

// Game holds the state of one capture game. X always moves first, and the
// turn alternates after every applied move with no exceptions.
type Game struct {
	ID          string
	Board       Board
	CurrentTurn PlayerMark
	MoveCount   int
}

// NewGame returns a fresh game with an all-empty board.
func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		CurrentTurn: PlayerX,
	}
}

// Up, down, left, right. Diagonal neighbors never capture.
var captureDirections = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// IsValidMove reports whether m lands on an empty in-bounds cell.
func (g *Game) IsValidMove(m Move) bool {
	return inBounds(m) && g.Board[m.Row][m.Col] == None
}

// ValidMoves returns every empty coordinate in row-major order.
func (g *Game) ValidMoves() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize-g.MoveCount)
	for r := range BoardSize {
		for c := range BoardSize {
			if g.Board[r][c] == None {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// ApplyMove places mark on the given cell and flips every orthogonally
// adjacent opponent piece to mark. It returns the flipped coordinates.
//
// Captures are a single hop: flipping a neighbor never triggers further
// flips, and eligibility is decided by the board as it stood before the
// placement. Only the placed cell changes occupancy.
func (g *Game) ApplyMove(mark PlayerMark, m Move) ([]Move, error) {
	if mark != g.CurrentTurn {
		return nil, fmt.Errorf("%w: %s moved on %s's turn", ErrNotYourTurn, mark, g.CurrentTurn)
	}
	if !inBounds(m) {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, m.Row, m.Col)
	}
	if g.Board[m.Row][m.Col] != None {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, m.Row, m.Col)
	}

	opponent := Opponent(mark)
	g.Board[m.Row][m.Col] = mark

	captured := make([]Move, 0, 4)
	for _, d := range captureDirections {
		r, c := m.Row+d[0], m.Col+d[1]
		if r < 0 || r >= BoardSize || c < 0 || c >= BoardSize {
			continue
		}
		if g.Board[r][c] == opponent {
			g.Board[r][c] = mark
			captured = append(captured, Move{Row: r, Col: c})
		}
	}

	g.MoveCount++
	g.CurrentTurn = opponent

	return captured, nil
}

// IsFull reports whether no empty cells remain.
func (g *Game) IsFull() bool {
	for r := range BoardSize {
		for c := range BoardSize {
			if g.Board[r][c] == None {
				return false
			}
		}
	}
	return true
}

// PieceCounts returns the number of cells owned by X and O.
func (g *Game) PieceCounts() (xCount, oCount int) {
	for r := range BoardSize {
		for c := range BoardSize {
			switch g.Board[r][c] {
			case PlayerX:
				xCount++
			case PlayerO:
				oCount++
			}
		}
	}
	return xCount, oCount
}

// Outcome reports the final result of the game. ok is false while any cell
// is still empty; there is no mid-game win condition.
func (g *Game) Outcome() (result GameResult, ok bool) {
	if !g.IsFull() {
		return "", false
	}

	xCount, oCount := g.PieceCounts()
	switch {
	case xCount > oCount:
		return XWins, true
	case oCount > xCount:
		return OWins, true
	default:
		return Draw, true
	}
}
