package agent

import (
	"testing"

	"ctchen222/LLM-Arena/internal/game"
)

func TestParseMove(t *testing.T) {
	validMoves := []game.Move{
		{Row: 0, Col: 0},
		{Row: 3, Col: 4},
		{Row: 7, Col: 7},
	}

	tests := []struct {
		name          string
		reply         string
		wantMove      game.Move
		wantReasoning string
		wantOK        bool
	}{
		{
			name:          "clean json reply",
			reply:         `{"row": 3, "col": 4, "reasoning": "captures two pieces"}`,
			wantMove:      game.Move{Row: 3, Col: 4},
			wantReasoning: "captures two pieces",
			wantOK:        true,
		},
		{
			name:          "json embedded in prose",
			reply:         "I will take the corner.\n```json\n{\"row\": 0, \"col\": 0, \"reasoning\": \"corner\"}\n```",
			wantMove:      game.Move{Row: 0, Col: 0},
			wantReasoning: "corner",
			wantOK:        true,
		},
		{
			name:     "json without reasoning",
			reply:    `{"row": 7, "col": 7}`,
			wantMove: game.Move{Row: 7, Col: 7},
			wantOK:   true,
		},
		{
			name:     "coordinate pair fallback",
			reply:    "The best move is (3, 4) because it controls the center.",
			wantMove: game.Move{Row: 3, Col: 4},
			wantOK:   true,
		},
		{
			name:     "first coordinate invalid, second valid",
			reply:    "Options are (5, 5) and (7, 7); I pick the latter.",
			wantMove: game.Move{Row: 7, Col: 7},
			wantOK:   true,
		},
		{
			name:     "json move not in valid list falls back to coordinates",
			reply:    `{"row": 6, "col": 6, "reasoning": "bad"} ... actually (0, 0) is better`,
			wantMove: game.Move{Row: 0, Col: 0},
			wantOK:   true,
		},
		{
			name:   "no move at all",
			reply:  "I am not sure what to do here.",
			wantOK: false,
		},
		{
			name:   "coordinates out of the valid list",
			reply:  "(5, 5) looks strong.",
			wantOK: false,
		},
		{
			name:   "malformed json and no coordinates",
			reply:  `{"row": "three", "col": }`,
			wantOK: false,
		},
		{
			name:   "empty reply",
			reply:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			move, reasoning, ok := ParseMove(tt.reply, validMoves)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if move != tt.wantMove {
				t.Errorf("move = %v, want %v", move, tt.wantMove)
			}
			if reasoning != tt.wantReasoning {
				t.Errorf("reasoning = %q, want %q", reasoning, tt.wantReasoning)
			}
		})
	}
}

func TestParseMove_NegativeCoordinatesIgnored(t *testing.T) {
	validMoves := []game.Move{{Row: 1, Col: 1}}

	// The pattern only matches unsigned integers, so "(-1, 1)" yields no
	// candidate and the reply is rejected.
	_, _, ok := ParseMove("try (-1, 1)", validMoves)
	if ok {
		t.Error("expected negative coordinates to be rejected")
	}
}
