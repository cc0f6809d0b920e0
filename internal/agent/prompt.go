package agent

import (
	"fmt"
	"math"
	"strings"

	"ctchen222/LLM-Arena/internal/game"
)

// Game phases, decided by how much of the board is filled.
const (
	phaseOpening = "OPENING PHASE"
	phaseMidgame = "MIDGAME PHASE"
	phaseEndgame = "ENDGAME PHASE"
)

const promptRules = `You are playing a strategic board game similar to Othello/Reversi with the following rules:

GAME RULES:
1. The game is played on an 8x8 grid.
2. Players take turns placing pieces on empty cells.
3. When you place a piece, you capture any ADJACENT opponent pieces (up, down, left, right).
4. Adjacent means sharing an edge, not just a corner.
5. The game ends when the board is full.
6. The player with the most pieces wins.

CAPTURE MECHANICS:
- When you place a piece at position (r,c), you capture any opponent pieces at (r+1,c), (r-1,c), (r,c+1), and (r,c-1).
- You do NOT capture diagonally adjacent pieces.
- You only capture pieces that are directly adjacent to your newly placed piece.
`

const promptInstructions = `SPECIAL POSITIONS:
- CORNERS (0,0), (0,7), (7,0), (7,7): Most valuable positions, should be prioritized
- EDGES: Second most valuable, hard for opponent to capture
- NEAR CORNERS: Avoid placing pieces adjacent to empty corners, as they give opponent access to corners
- CENTER CONTROL: Important in early game to establish position

INSTRUCTIONS:
1. Analyze the board carefully
2. Choose the move that maximizes your long-term advantage
3. Return ONLY a JSON object with your chosen move, like this:
{"row": 3, "col": 4, "reasoning": "This move captures 2 pieces and controls a strategic position"}

Your move:`

// BuildPrompt renders the full decision prompt for one turn: rules, a board
// diagram, per-move capture analysis, recent history and phase-dependent
// strategy tips.
func BuildPrompt(snap *Snapshot) string {
	var b strings.Builder

	b.WriteString(promptRules)
	b.WriteString("\nCURRENT GAME STATE:\nBoard (X=player1, O=player2, .=empty):\n")
	b.WriteString(renderBoard(snap.Board))

	playerNum := 1
	if snap.Mark == game.PlayerO {
		playerNum = 2
	}
	fmt.Fprintf(&b, "\nYou are player %d (%s).\n", playerNum, snap.Mark)
	fmt.Fprintf(&b, "Current score: Player 1 (X): %d, Player 2 (O): %d\n", snap.XCount, snap.OCount)
	fmt.Fprintf(&b, "Game phase: %s\n\n", gamePhase(snap))

	if len(snap.History) > 0 {
		b.WriteString("Recent moves:\n")
		for i, h := range snap.History {
			fmt.Fprintf(&b, "%d. Player %s placed at (%d, %d). Score after: X:%d, O:%d\n",
				i+1, h.Mark, h.Move.Row, h.Move.Col, h.XCount, h.OCount)
		}
		b.WriteString("\n")
	}

	b.WriteString("VALID MOVES (with capture analysis):\n")
	for _, m := range snap.ValidMoves {
		captures := CountCaptures(snap.Board, snap.Mark, m)
		fmt.Fprintf(&b, "(%d, %d) - would capture %d pieces %s\n",
			m.Row, m.Col, captures, positionNotes(m))
	}

	b.WriteString("\nADVANCED STRATEGY TIPS:\n")
	b.WriteString(strategyTips(gamePhase(snap)))
	b.WriteString("\n")
	b.WriteString(promptInstructions)

	return b.String()
}

func renderBoard(board game.Board) string {
	var b strings.Builder
	b.WriteString("  0 1 2 3 4 5 6 7\n")
	for r := range game.BoardSize {
		fmt.Fprintf(&b, "%d ", r)
		for c := range game.BoardSize {
			switch board[r][c] {
			case game.PlayerX:
				b.WriteString("X ")
			case game.PlayerO:
				b.WriteString("O ")
			default:
				b.WriteString(". ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func positionNotes(m game.Move) string {
	var notes []string
	switch {
	case IsCorner(m):
		notes = append(notes, "CORNER (excellent strategic position)")
	case IsNextToCorner(m):
		notes = append(notes, "NEXT TO CORNER (risky, gives opponent access to corner)")
	case IsEdge(m):
		notes = append(notes, "EDGE (good strategic position)")
	}
	if CenterDistance(m) <= 1 {
		notes = append(notes, "CENTER (good for early control)")
	}
	return strings.Join(notes, ", ")
}

func gamePhase(snap *Snapshot) string {
	total := snap.XCount + snap.OCount
	empty := game.BoardSize*game.BoardSize - total
	switch {
	case total < 20:
		return phaseOpening
	case empty < 15:
		return phaseEndgame
	default:
		return phaseMidgame
	}
}

func strategyTips(phase string) string {
	switch phase {
	case phaseOpening:
		return `- Focus on controlling the center of the board
- Avoid placing pieces next to corners (they give your opponent access to corners)
- Build a solid foundation for mid-game
- Mobility is more important than maximizing immediate captures`
	case phaseEndgame:
		return `- Focus on maximizing piece count
- Secure corners and edges
- Look for moves that lead to multiple captures
- Consider how the board will be filled by the end of the game`
	default:
		return `- Balance between position and captures
- Limit your opponent's mobility
- Secure corners when possible
- Build strong edge formations
- Avoid giving away corner access`
	}
}

// IsCorner reports whether m is one of the four corner cells.
func IsCorner(m game.Move) bool {
	return (m.Row == game.BorderMin || m.Row == game.BorderMax) &&
		(m.Col == game.BorderMin || m.Col == game.BorderMax)
}

// IsNextToCorner reports whether m is one of the 12 cells orthogonally or
// diagonally adjacent to a corner (the corner itself excluded).
func IsNextToCorner(m game.Move) bool {
	if IsCorner(m) {
		return false
	}
	nearLow := func(v int) bool { return v <= game.BorderMin+1 }
	nearHigh := func(v int) bool { return v >= game.BorderMax-1 }
	return (nearLow(m.Row) || nearHigh(m.Row)) && (nearLow(m.Col) || nearHigh(m.Col))
}

// IsEdge reports whether m lies on the outer ring of the board.
func IsEdge(m game.Move) bool {
	return m.Row == game.BorderMin || m.Row == game.BorderMax ||
		m.Col == game.BorderMin || m.Col == game.BorderMax
}

// CenterDistance is the Manhattan distance from m to the board center (3.5, 3.5).
func CenterDistance(m game.Move) float64 {
	center := float64(game.BoardSize-1) / 2
	return math.Abs(float64(m.Row)-center) + math.Abs(float64(m.Col)-center)
}
