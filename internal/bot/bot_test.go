package bot

import (
	"context"
	"errors"
	"testing"

	"ctchen222/LLM-Arena/internal/agent"
	"ctchen222/LLM-Arena/internal/game"
)

func TestSelector_Name(t *testing.T) {
	s := NewSelector("Heuristic")
	if s.Name() != "Heuristic" {
		t.Errorf("Name() = %q, want %q", s.Name(), "Heuristic")
	}
}

func TestSelector_ProposeMove(t *testing.T) {
	snap := &agent.Snapshot{
		Board:      game.Board{},
		Mark:       game.PlayerX,
		ValidMoves: []game.Move{{Row: 2, Col: 5}, {Row: 0, Col: 0}},
	}

	got, err := NewSelector("Heuristic").ProposeMove(context.Background(), snap)
	if err != nil {
		t.Fatalf("ProposeMove returned error: %v", err)
	}
	want := game.Move{Row: 0, Col: 0}
	if got != want {
		t.Errorf("ProposeMove = %v, want %v", got, want)
	}
}

func TestSelector_ProposeMove_NoMoves(t *testing.T) {
	snap := &agent.Snapshot{Mark: game.PlayerX}

	_, err := NewSelector("Heuristic").ProposeMove(context.Background(), snap)
	if !errors.Is(err, ErrNoAvailableMoves) {
		t.Errorf("expected ErrNoAvailableMoves, got %v", err)
	}
}
