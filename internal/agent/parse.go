package agent

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"ctchen222/LLM-Arena/internal/game"
)

var coordPattern = regexp.MustCompile(`\((\d+)\s*,\s*(\d+)\)`)

type moveReply struct {
	Row       *int   `json:"row"`
	Col       *int   `json:"col"`
	Reasoning string `json:"reasoning"`
}

// ParseMove extracts a move from a model reply. It first looks for a JSON
// object with "row" and "col" fields, then falls back to scanning the text
// for "(r, c)" coordinate pairs. Every candidate is checked against
// validMoves; the first valid one wins. ok is false when nothing usable was
// found.
func ParseMove(reply string, validMoves []game.Move) (move game.Move, reasoning string, ok bool) {
	if m, why, found := parseJSONMove(reply); found && moveIn(m, validMoves) {
		return m, why, true
	}

	for _, match := range coordPattern.FindAllStringSubmatch(reply, -1) {
		row, err1 := strconv.Atoi(match[1])
		col, err2 := strconv.Atoi(match[2])
		if err1 != nil || err2 != nil {
			continue
		}
		m := game.Move{Row: row, Col: col}
		if moveIn(m, validMoves) {
			return m, "", true
		}
	}

	return game.Move{}, "", false
}

func parseJSONMove(reply string) (game.Move, string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return game.Move{}, "", false
	}

	var parsed moveReply
	if err := json.Unmarshal([]byte(reply[start:end+1]), &parsed); err != nil {
		return game.Move{}, "", false
	}
	if parsed.Row == nil || parsed.Col == nil {
		return game.Move{}, "", false
	}

	return game.Move{Row: *parsed.Row, Col: *parsed.Col}, parsed.Reasoning, true
}

func moveIn(m game.Move, list []game.Move) bool {
	for _, item := range list {
		if item == m {
			return true
		}
	}
	return false
}
