package models

import "ctchen222/LLM-Arena/internal/tournament"

// TournamentRequest asks the server to run a tournament between the given
// agents.
type TournamentRequest struct {
	Agents       []tournament.AgentSpec `json:"agents" binding:"required,min=2,dive"`
	GamesPerPair int                    `json:"games_per_pair" binding:"omitempty,min=1,max=100"`
}

// TournamentStatus reports the progress of a launched tournament run.
type TournamentStatus struct {
	RunID     string                `json:"run_id"`
	Status    string                `json:"status"`
	Agents    []string              `json:"agents"`
	Error     string                `json:"error,omitempty"`
	Standings []tournament.Standing `json:"standings,omitempty"`
}
