package events

import (
	"encoding/json"

	"ctchen222/LLM-Arena/internal/game"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:arena:events"
)

// Event types published on EventsChannel.
const (
	TypeGameStarted   = "game_started"
	TypeMoveApplied   = "move_applied"
	TypeGameFinished  = "game_finished"
	TypeMatchFinished = "match_finished"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// New wraps a payload into an Event of the given type.
func New(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: raw}, nil
}

// GameStartedPayload is the payload for the "game_started" event.
type GameStartedPayload struct {
	GameID     string `json:"game_id"`
	MatchID    string `json:"match_id"`
	GameNumber int    `json:"game_number"`
	AgentX     string `json:"agent_x"`
	AgentO     string `json:"agent_o"`
}

// MoveAppliedPayload is the payload for the "move_applied" event.
type MoveAppliedPayload struct {
	GameID       string              `json:"game_id"`
	Agent        string              `json:"agent"`
	Mark         game.PlayerMark     `json:"mark"`
	Move         game.Move           `json:"move"`
	Captures     []game.Move         `json:"captures"`
	XCount       int                 `json:"x_count"`
	OCount       int                 `json:"o_count"`
	MoveNumber   int                 `json:"move_number"`
	UsedFallback bool                `json:"used_fallback"`
	Board        [][]game.PlayerMark `json:"board"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	GameID  string          `json:"game_id"`
	MatchID string          `json:"match_id"`
	Result  game.GameResult `json:"result"`
	Winner  string          `json:"winner,omitempty"`
	XCount  int             `json:"x_count"`
	OCount  int             `json:"o_count"`
}

// MatchFinishedPayload is the payload for the "match_finished" event.
type MatchFinishedPayload struct {
	MatchID string `json:"match_id"`
	Agent1  string `json:"agent1"`
	Agent2  string `json:"agent2"`
	Wins1   int    `json:"wins1"`
	Wins2   int    `json:"wins2"`
	Draws   int    `json:"draws"`
}
