package standings

import (
	"sort"

	"cricket-score/internal/domain"
)

const DefaultLeadersLimit = 100

type Leader struct {
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName"`
	TeamID       string  `json:"teamId"`
	TeamName     string  `json:"teamName"`
	Runs         int     `json:"runs"`
	BallsFaced   int     `json:"ballsFaced"`
	Fours        int     `json:"fours"`
	Sixes        int     `json:"sixes"`
	StrikeRate   float64 `json:"strikeRate"`
	Wickets      int     `json:"wickets"`
	BallsBowled  int     `json:"ballsBowled"`
	RunsConceded int     `json:"runsConceded"`
	Economy      float64 `json:"economy"`
}

// Leaders sums per-match stats by player and ranks them by runs, then
// wickets, then strike rate. Rows for unknown players or teams are dropped.
func Leaders(stats []domain.PlayerStats, players map[string]domain.Player, teams map[string]domain.Team, limit int) []Leader {
	if limit <= 0 {
		limit = DefaultLeadersLimit
	}

	sums := make(map[string]*domain.PlayerStats)
	order := make([]string, 0)
	for _, s := range stats {
		cur, ok := sums[s.PlayerID]
		if !ok {
			cur = &domain.PlayerStats{PlayerID: s.PlayerID, TeamID: s.TeamID}
			sums[s.PlayerID] = cur
			order = append(order, s.PlayerID)
		}
		s.IsOut = false
		cur.Add(s)
	}

	type ranked struct {
		Leader
		sr float64
	}
	rows := make([]ranked, 0, len(order))
	for _, id := range order {
		s := sums[id]
		p, ok := players[id]
		if !ok {
			continue
		}
		t, ok := teams[s.TeamID]
		if !ok {
			continue
		}
		sr, econ := 0.0, 0.0
		if s.BallsFaced > 0 {
			sr = float64(s.Runs) / float64(s.BallsFaced) * 100
		}
		if s.BallsBowled > 0 {
			econ = float64(s.RunsConceded) / (float64(s.BallsBowled) / 6)
		}
		rows = append(rows, ranked{
			sr: sr,
			Leader: Leader{
				PlayerID:     id,
				PlayerName:   p.FullName,
				TeamID:       s.TeamID,
				TeamName:     t.Name,
				Runs:         s.Runs,
				BallsFaced:   s.BallsFaced,
				Fours:        s.Fours,
				Sixes:        s.Sixes,
				StrikeRate:   round(sr, 1),
				Wickets:      s.Wickets,
				BallsBowled:  s.BallsBowled,
				RunsConceded: s.RunsConceded,
				Economy:      round(econ, 2),
			},
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		x, y := rows[i], rows[j]
		if x.Runs != y.Runs {
			return x.Runs > y.Runs
		}
		if x.Wickets != y.Wickets {
			return x.Wickets > y.Wickets
		}
		if x.sr != y.sr {
			return x.sr > y.sr
		}
		return x.PlayerName < y.PlayerName
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]Leader, len(rows))
	for i, r := range rows {
		out[i] = r.Leader
	}
	return out
}
