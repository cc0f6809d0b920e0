package agent

import (
	"strings"
	"testing"

	"ctchen222/LLM-Arena/internal/game"
)

func TestBuildPrompt_ContainsGameState(t *testing.T) {
	board := game.Board{}
	board[3][3] = game.PlayerX
	board[3][4] = game.PlayerO

	snap := &Snapshot{
		Board:      board,
		Mark:       game.PlayerO,
		ValidMoves: []game.Move{{Row: 2, Col: 3}, {Row: 0, Col: 0}},
		XCount:     1,
		OCount:     1,
		History: []HistoryEntry{
			{Mark: game.PlayerX, Move: game.Move{Row: 3, Col: 3}, XCount: 1, OCount: 0},
		},
	}

	prompt := BuildPrompt(snap)

	for _, want := range []string{
		"You are player 2 (O).",
		"Current score: Player 1 (X): 1, Player 2 (O): 1",
		"Game phase: OPENING PHASE",
		"1. Player X placed at (3, 3). Score after: X:1, O:0",
		"(2, 3) - would capture 1 pieces",
		"(0, 0) - would capture 0 pieces CORNER (excellent strategic position)",
		`{"row": 3, "col": 4, "reasoning":`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRenderBoard(t *testing.T) {
	board := game.Board{}
	board[0][0] = game.PlayerX
	board[7][7] = game.PlayerO

	rendered := renderBoard(board)
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	if len(lines) != game.BoardSize+1 {
		t.Fatalf("expected %d lines, got %d", game.BoardSize+1, len(lines))
	}
	if lines[0] != "  0 1 2 3 4 5 6 7" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0 X . ") {
		t.Errorf("row 0 = %q", lines[1])
	}
	if !strings.HasSuffix(strings.TrimRight(lines[8], " "), "O") {
		t.Errorf("row 7 = %q", lines[8])
	}
}

func TestGamePhase(t *testing.T) {
	tests := []struct {
		name   string
		xCount int
		oCount int
		want   string
	}{
		{"fresh board", 0, 0, phaseOpening},
		{"nineteen pieces", 10, 9, phaseOpening},
		{"twenty pieces", 10, 10, phaseMidgame},
		{"fourteen empty", 25, 25, phaseEndgame},
		{"fifteen empty", 25, 24, phaseMidgame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &Snapshot{XCount: tt.xCount, OCount: tt.oCount}
			if got := gamePhase(snap); got != tt.want {
				t.Errorf("gamePhase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPositionClassifiers(t *testing.T) {
	tests := []struct {
		move         game.Move
		corner       bool
		nextToCorner bool
		edge         bool
	}{
		{game.Move{Row: 0, Col: 0}, true, false, true},
		{game.Move{Row: 7, Col: 7}, true, false, true},
		{game.Move{Row: 0, Col: 1}, false, true, true},
		{game.Move{Row: 1, Col: 1}, false, true, false},
		{game.Move{Row: 6, Col: 7}, false, true, true},
		{game.Move{Row: 0, Col: 4}, false, false, true},
		{game.Move{Row: 4, Col: 7}, false, false, true},
		{game.Move{Row: 3, Col: 3}, false, false, false},
	}

	for _, tt := range tests {
		if got := IsCorner(tt.move); got != tt.corner {
			t.Errorf("IsCorner(%v) = %v, want %v", tt.move, got, tt.corner)
		}
		if got := IsNextToCorner(tt.move); got != tt.nextToCorner {
			t.Errorf("IsNextToCorner(%v) = %v, want %v", tt.move, got, tt.nextToCorner)
		}
		if got := IsEdge(tt.move); got != tt.edge {
			t.Errorf("IsEdge(%v) = %v, want %v", tt.move, got, tt.edge)
		}
	}
}

func TestCenterDistance(t *testing.T) {
	if d := CenterDistance(game.Move{Row: 3, Col: 3}); d != 1.0 {
		t.Errorf("CenterDistance(3,3) = %v, want 1.0", d)
	}
	if d := CenterDistance(game.Move{Row: 0, Col: 0}); d != 7.0 {
		t.Errorf("CenterDistance(0,0) = %v, want 7.0", d)
	}
}

func TestCountCaptures(t *testing.T) {
	board := game.Board{}
	board[3][3] = game.PlayerO
	board[3][5] = game.PlayerO
	board[2][4] = game.PlayerX
	board[4][4] = game.PlayerO

	// Placing X at (3,4): O neighbors at (3,3), (3,5), (4,4); own piece at
	// (2,4) does not count.
	if got := CountCaptures(board, game.PlayerX, game.Move{Row: 3, Col: 4}); got != 3 {
		t.Errorf("CountCaptures = %d, want 3", got)
	}

	// Edges clip the neighborhood instead of wrapping.
	board = game.Board{}
	board[0][1] = game.PlayerO
	board[1][0] = game.PlayerO
	if got := CountCaptures(board, game.PlayerX, game.Move{Row: 0, Col: 0}); got != 2 {
		t.Errorf("CountCaptures at corner = %d, want 2", got)
	}
}
