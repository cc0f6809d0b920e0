package bot

import (
	"testing"

	"ctchen222/LLM-Arena/internal/game"
)

// moveIn is a helper function to check if a move is in a list of expected moves.
func moveIn(move game.Move, list []game.Move) bool {
	for _, item := range list {
		if item == move {
			return true
		}
	}
	return false
}

func TestScoreMove(t *testing.T) {
	empty := game.Board{}

	// A mostly full board keeps CountEmpty below the opening threshold so
	// positional scores are not perturbed by the center bonus.
	late := game.Board{}
	for r := range game.BoardSize {
		for c := range game.BoardSize {
			if r < 4 {
				late[r][c] = game.PlayerO
			}
		}
	}
	late[0][0] = game.None
	late[0][7] = game.None
	late[1][1] = game.None
	late[0][4] = game.None
	late[5][5] = game.None

	tests := []struct {
		name  string
		board game.Board
		mark  game.PlayerMark
		move  game.Move
		want  int
	}{
		{
			name:  "corner on late board",
			board: late,
			mark:  game.PlayerX,
			move:  game.Move{Row: 0, Col: 0},
			want:  100 + 20*2, // flips the O at (0,1) and (1,0)
		},
		{
			name:  "near-corner penalty",
			board: late,
			mark:  game.PlayerX,
			move:  game.Move{Row: 1, Col: 1},
			want:  -50 + 20*4, // O on all four sides
		},
		{
			name:  "edge with captures",
			board: late,
			mark:  game.PlayerX,
			move:  game.Move{Row: 0, Col: 4},
			want:  30 + 20*3, // O at (0,3), (0,5), (1,4)
		},
		{
			name:  "interior, no neighbors, no bonus",
			board: late,
			mark:  game.PlayerX,
			move:  game.Move{Row: 5, Col: 5},
			want:  0,
		},
		{
			name:  "center bonus on empty board",
			board: empty,
			mark:  game.PlayerX,
			move:  game.Move{Row: 3, Col: 3}, // distance 1.0 from center
			want:  15,
		},
		{
			name:  "interior cell outside center radius",
			board: empty,
			mark:  game.PlayerX,
			move:  game.Move{Row: 2, Col: 2}, // distance 3.0 from center
			want:  0,
		},
		{
			name:  "own pieces are not counted as captures",
			board: late,
			mark:  game.PlayerO,
			move:  game.Move{Row: 0, Col: 4},
			want:  30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreMove(tt.board, tt.mark, tt.move)
			if got != tt.want {
				t.Errorf("ScoreMove(%v) = %d, want %d", tt.move, got, tt.want)
			}
		})
	}
}

func TestSelectMove_PicksHighestScore(t *testing.T) {
	board := game.Board{}
	for r := range game.BoardSize {
		for c := range game.BoardSize {
			board[r][c] = game.PlayerO
		}
	}
	board[0][0] = game.None
	board[4][4] = game.None

	candidates := []game.Move{
		{Row: 4, Col: 4}, // interior, 4 captures: 80
		{Row: 0, Col: 0}, // corner, 2 captures: 140
	}

	got, err := SelectMove(board, game.PlayerX, candidates)
	if err != nil {
		t.Fatalf("SelectMove returned error: %v", err)
	}
	want := game.Move{Row: 0, Col: 0}
	if got != want {
		t.Errorf("SelectMove = %v, want %v", got, want)
	}
}

func TestSelectMove_BreaksTiesWithinBest(t *testing.T) {
	// On an empty board every corner scores 100; interior cells outside the
	// center radius score 0. The pick must always come from the corners.
	board := game.Board{}
	corners := []game.Move{
		{Row: 0, Col: 0},
		{Row: 0, Col: 7},
		{Row: 7, Col: 0},
		{Row: 7, Col: 7},
	}
	candidates := append([]game.Move{{Row: 2, Col: 5}, {Row: 5, Col: 2}}, corners...)

	for range 20 {
		got, err := SelectMove(board, game.PlayerX, candidates)
		if err != nil {
			t.Fatalf("SelectMove returned error: %v", err)
		}
		if !moveIn(got, corners) {
			t.Fatalf("SelectMove = %v, want one of the corners", got)
		}
	}
}

func TestSelectMove_EmptyCandidates(t *testing.T) {
	_, err := SelectMove(game.Board{}, game.PlayerX, nil)
	if err != ErrNoAvailableMoves {
		t.Errorf("expected ErrNoAvailableMoves, got %v", err)
	}
}
