// Package standings aggregates finished and in-progress matches into group
// tables with net run rate, and player stats into a leaderboard.
package standings

import (
	"math"
	"sort"

	"cricket-score/internal/domain"
)

const (
	PointsWin      = 2
	PointsTie      = 1
	PointsNoResult = 1
)

// MatchRecord is one tournament match with its innings and result, if any.
type MatchRecord struct {
	Match   domain.Match
	Innings []domain.Innings
	Result  *domain.MatchResult
}

type Input struct {
	Groups     []domain.Group
	GroupTeams []domain.GroupTeam
	Teams      []domain.Team
	Matches    []MatchRecord
}

type Row struct {
	TeamID      string  `json:"teamId"`
	TeamName    string  `json:"teamName"`
	Played      int     `json:"played"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
	Tied        int     `json:"tied"`
	NoResult    int     `json:"noResult"`
	Points      int     `json:"points"`
	RunsFor     int     `json:"runsFor"`
	BallsFaced  int     `json:"ballsFaced"`
	RunsAgainst int     `json:"runsAgainst"`
	BallsBowled int     `json:"ballsBowled"`
	NRR         float64 `json:"nrr"`
}

type GroupTable struct {
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName"`
	Rows      []Row  `json:"table"`
}

// NetRunRate is runs-per-over scored minus runs-per-over conceded, rounded to
// three decimals. A side with no balls contributes a zero rate.
func NetRunRate(runsFor, ballsFaced, runsAgainst, ballsBowled int) float64 {
	rate := func(runs, balls int) float64 {
		if balls <= 0 {
			return 0
		}
		return float64(runs) / (float64(balls) / 6)
	}
	return round(rate(runsFor, ballsFaced)-rate(runsAgainst, ballsBowled), 3)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Compute builds one table per group. Only matches whose two teams sit in the
// same group are counted.
func Compute(in Input) []GroupTable {
	teamGroup := make(map[string]string, len(in.GroupTeams))
	for _, gt := range in.GroupTeams {
		teamGroup[gt.TeamID] = gt.GroupID
	}
	teamName := make(map[string]string, len(in.Teams))
	for _, t := range in.Teams {
		teamName[t.ID] = t.Name
	}

	tables := make(map[string]map[string]*Row, len(in.Groups))
	for _, g := range in.Groups {
		tables[g.ID] = make(map[string]*Row)
	}
	row := func(groupID, teamID string) *Row {
		t, ok := tables[groupID]
		if !ok {
			return nil
		}
		r, ok := t[teamID]
		if !ok {
			name := teamName[teamID]
			if name == "" {
				name = "Team"
			}
			r = &Row{TeamID: teamID, TeamName: name}
			t[teamID] = r
		}
		return r
	}

	for _, rec := range in.Matches {
		if len(rec.Innings) == 0 {
			continue
		}
		m := rec.Match
		g := teamGroup[m.TeamAID]
		if g == "" || g != teamGroup[m.TeamBID] {
			continue
		}
		a, b := row(g, m.TeamAID), row(g, m.TeamBID)
		if a == nil || b == nil {
			continue
		}

		totals := make(map[string]int, 2)
		for _, inn := range rec.Innings {
			bat, bowl := row(g, inn.BattingTeamID), row(g, inn.BowlingTeamID)
			if bat == nil || bowl == nil {
				continue
			}
			bat.RunsFor += inn.Runs
			bat.BallsFaced += inn.LegalBalls
			bowl.RunsAgainst += inn.Runs
			bowl.BallsBowled += inn.LegalBalls
			totals[inn.BattingTeamID] += inn.Runs
		}

		if len(rec.Innings) < 2 && m.Status != domain.MatchFinished {
			continue
		}
		a.Played++
		b.Played++

		res := rec.Result
		switch {
		case res != nil && res.IsTie:
			tie(a, b)
		case res != nil && res.IsNoResult:
			a.NoResult++
			b.NoResult++
			a.Points += PointsNoResult
			b.Points += PointsNoResult
		case res != nil && res.WinnerTeamID != "":
			switch res.WinnerTeamID {
			case m.TeamAID:
				win(a, b)
			case m.TeamBID:
				win(b, a)
			}
		case m.Status == domain.MatchFinished:
			ta, tb := totals[m.TeamAID], totals[m.TeamBID]
			switch {
			case ta == tb:
				tie(a, b)
			case ta > tb:
				win(a, b)
			default:
				win(b, a)
			}
		}
	}

	out := make([]GroupTable, 0, len(in.Groups))
	for _, g := range in.Groups {
		rows := make([]Row, 0, len(tables[g.ID]))
		for _, r := range tables[g.ID] {
			r.NRR = NetRunRate(r.RunsFor, r.BallsFaced, r.RunsAgainst, r.BallsBowled)
			rows = append(rows, *r)
		}
		sort.Slice(rows, func(i, j int) bool {
			x, y := rows[i], rows[j]
			if x.Points != y.Points {
				return x.Points > y.Points
			}
			if x.NRR != y.NRR {
				return x.NRR > y.NRR
			}
			if x.RunsFor != y.RunsFor {
				return x.RunsFor > y.RunsFor
			}
			return x.TeamName < y.TeamName
		})
		out = append(out, GroupTable{GroupID: g.ID, GroupName: g.Name, Rows: rows})
	}
	return out
}

func win(w, l *Row) {
	w.Won++
	w.Points += PointsWin
	l.Lost++
}

func tie(a, b *Row) {
	a.Tied++
	b.Tied++
	a.Points += PointsTie
	b.Points += PointsTie
}
