package game

// Opponent returns the other player's mark.
func Opponent(mark PlayerMark) PlayerMark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func inBounds(m Move) bool {
	return m.Row >= BorderMin && m.Row <= BorderMax && m.Col >= BorderMin && m.Col <= BorderMax
}

// Border
const (
	BorderMin = 0             // First index of the board
	BorderMax = BoardSize - 1 // Last index of the board
)

// BoardAsStrings converts the game board to a dynamic slice of slices,
// which serializes to a plain JSON array for wire messages.
func (g *Game) BoardAsStrings() [][]PlayerMark {
	return BoardArrayToSlice(g.Board)
}

// BoardArrayToSlice converts a fixed-size board array to nested slices.
func BoardArrayToSlice(b Board) [][]PlayerMark {
	board := make([][]PlayerMark, BoardSize)
	for r := range BoardSize {
		board[r] = make([]PlayerMark, BoardSize)
		for c := range BoardSize {
			board[r][c] = b[r][c]
		}
	}
	return board
}

// CountEmpty returns the number of unowned cells on a board.
func CountEmpty(b Board) int {
	empty := 0
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c] == None {
				empty++
			}
		}
	}
	return empty
}
