package tournament

import "sort"

// Standing accumulates one agent's results across a tournament.
type Standing struct {
	Agent  string `json:"agent"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
	Games  int    `json:"games"`
	Points int    `json:"points"`
	// WinRate is Wins over Games. Ties earn points but no rate credit.
	WinRate float64 `json:"win_rate"`
}

// Points per game outcome.
const (
	winPoints = 3
	tiePoints = 1
)

func (s *Standing) refresh() {
	if s.Games == 0 {
		s.WinRate = 0
		return
	}
	s.WinRate = float64(s.Wins) / float64(s.Games)
}

// Standings tracks every participant, keyed by agent name.
type Standings struct {
	byAgent map[string]*Standing
}

// NewStandings creates an empty standings table with the given participants
// pre-registered, so agents that lose every game still appear.
func NewStandings(agents ...string) *Standings {
	s := &Standings{byAgent: make(map[string]*Standing)}
	for _, name := range agents {
		s.ensure(name)
	}
	return s
}

func (s *Standings) ensure(agent string) *Standing {
	st, ok := s.byAgent[agent]
	if !ok {
		st = &Standing{Agent: agent}
		s.byAgent[agent] = st
	}
	return st
}

// RecordGame applies one finished game. winner is the winning agent's name,
// empty for a draw.
func (s *Standings) RecordGame(agent1, agent2, winner string) {
	a, b := s.ensure(agent1), s.ensure(agent2)
	a.Games++
	b.Games++

	switch winner {
	case agent1:
		a.Wins++
		a.Points += winPoints
		b.Losses++
	case agent2:
		b.Wins++
		b.Points += winPoints
		a.Losses++
	default:
		a.Ties++
		b.Ties++
		a.Points += tiePoints
		b.Points += tiePoints
	}
	a.refresh()
	b.refresh()
}

// Leaderboard returns the standings sorted by win rate, then points, then
// name for a stable order.
func (s *Standings) Leaderboard() []Standing {
	out := make([]Standing, 0, len(s.byAgent))
	for _, st := range s.byAgent {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Agent < out[j].Agent
	})
	return out
}

// Get returns the standing for agent, if any.
func (s *Standings) Get(agent string) (Standing, bool) {
	st, ok := s.byAgent[agent]
	if !ok {
		return Standing{}, false
	}
	return *st, true
}
