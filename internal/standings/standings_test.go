package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricket-score/internal/domain"
)

func inn(bat, bowl string, runs, balls int) domain.Innings {
	return domain.Innings{BattingTeamID: bat, BowlingTeamID: bowl, Runs: runs, LegalBalls: balls}
}

func finished(id, a, b string, winner string, innings ...domain.Innings) MatchRecord {
	rec := MatchRecord{
		Match:   domain.Match{ID: id, TeamAID: a, TeamBID: b, Status: domain.MatchFinished},
		Innings: innings,
	}
	if winner != "" {
		rec.Result = &domain.MatchResult{MatchID: id, WinnerTeamID: winner, LoserTeamID: rec.Match.Opponent(winner)}
	}
	return rec
}

func groupInput(matches ...MatchRecord) Input {
	return Input{
		Groups: []domain.Group{{ID: "g1", Name: "Group A"}, {ID: "g2", Name: "Group B"}},
		GroupTeams: []domain.GroupTeam{
			{GroupID: "g1", TeamID: "lions"},
			{GroupID: "g1", TeamID: "tigers"},
			{GroupID: "g1", TeamID: "bears"},
			{GroupID: "g2", TeamID: "wolves"},
		},
		Teams: []domain.Team{
			{ID: "lions", Name: "Lions"},
			{ID: "tigers", Name: "Tigers"},
			{ID: "bears", Name: "Bears"},
			{ID: "wolves", Name: "Wolves"},
		},
		Matches: matches,
	}
}

func TestNetRunRate(t *testing.T) {
	tests := []struct {
		name string
		in   [4]int // runs for, balls faced, runs against, balls bowled
		want float64
	}{
		{name: "plain", in: [4]int{120, 120, 100, 120}, want: 1},
		{name: "no balls faced", in: [4]int{0, 0, 60, 36}, want: -10},
		{name: "no balls either way", want: 0},
		{name: "rounded", in: [4]int{100, 35, 0, 0}, want: 17.143},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NetRunRate(tt.in[0], tt.in[1], tt.in[2], tt.in[3]))
		})
	}
}

func TestCompute_PointsAndNRR(t *testing.T) {
	in := groupInput(
		// lions beat tigers by 40 runs
		finished("m1", "lions", "tigers", "lions", inn("lions", "tigers", 100, 36), inn("tigers", "lions", 60, 36)),
		// bears beat lions by 1 run
		finished("m2", "bears", "lions", "bears", inn("bears", "lions", 61, 36), inn("lions", "bears", 60, 36)),
		// tigers beat bears by 10 runs
		finished("m3", "tigers", "bears", "tigers", inn("tigers", "bears", 70, 36), inn("bears", "tigers", 60, 36)),
	)

	tables := Compute(in)
	require.Len(t, tables, 2)
	assert.Equal(t, "Group A", tables[0].GroupName)
	assert.Empty(t, tables[1].Rows, "groups without matches still appear")

	rows := tables[0].Rows
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, 2, r.Played)
		assert.Equal(t, 2, r.Points)
	}
	// all on two points, so net run rate decides
	assert.Equal(t, []string{"lions", "bears", "tigers"}, []string{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID})
	assert.Equal(t, 3.25, rows[0].NRR)
	assert.Equal(t, -0.75, rows[1].NRR)
	assert.Equal(t, -2.5, rows[2].NRR)
	assert.Equal(t, 160, rows[0].RunsFor)
	assert.Equal(t, 121, rows[0].RunsAgainst)
	assert.Greater(t, rows[0].NRR, rows[1].NRR)
	assert.Greater(t, rows[1].NRR, rows[2].NRR)
}

func TestCompute_EqualRunRatesTieOnNRR(t *testing.T) {
	in := groupInput(
		// 60 off 36 and 30 off 18 are both ten an over
		finished("m1", "lions", "bears", "lions", inn("lions", "bears", 60, 36), inn("bears", "lions", 30, 36)),
		finished("m2", "tigers", "bears", "tigers", inn("bears", "tigers", 15, 18), inn("tigers", "bears", 30, 18)),
	)

	rows := Compute(in)[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "lions", rows[0].TeamID)
	assert.Equal(t, "tigers", rows[1].TeamID)
	assert.Equal(t, rows[0].Points, rows[1].Points)
	assert.Equal(t, rows[0].NRR, rows[1].NRR)
	assert.Equal(t, 5.0, rows[0].NRR)
	assert.Greater(t, rows[0].RunsFor, rows[1].RunsFor, "runs scored breaks the tie")
}

func TestCompute_ResultsWithoutWinner(t *testing.T) {
	tie := finished("m1", "lions", "tigers", "", inn("lions", "tigers", 50, 36), inn("tigers", "lions", 50, 36))
	tie.Result = &domain.MatchResult{MatchID: "m1", IsTie: true}

	washout := finished("m2", "lions", "bears", "", inn("lions", "bears", 20, 12))
	washout.Result = &domain.MatchResult{MatchID: "m2", IsNoResult: true}

	// finished with no result row: totals decide
	fallback := finished("m3", "tigers", "bears", "", inn("tigers", "bears", 40, 36), inn("bears", "tigers", 41, 30))

	// first innings only, not finished: runs count, the match does not
	live := MatchRecord{
		Match:   domain.Match{ID: "m4", TeamAID: "bears", TeamBID: "lions", Status: domain.MatchLive},
		Innings: []domain.Innings{inn("bears", "lions", 30, 18)},
	}

	// teams from different groups never count
	crossGroup := finished("m5", "lions", "wolves", "lions", inn("lions", "wolves", 200, 36), inn("wolves", "lions", 10, 36))

	rows := Compute(groupInput(tie, washout, fallback, live, crossGroup))[0].Rows
	byID := make(map[string]Row, len(rows))
	for _, r := range rows {
		byID[r.TeamID] = r
	}

	lions := byID["lions"]
	assert.Equal(t, 2, lions.Played)
	assert.Equal(t, 1, lions.Tied)
	assert.Equal(t, 1, lions.NoResult)
	assert.Equal(t, 2, lions.Points)
	assert.Equal(t, 70, lions.RunsFor)
	assert.Equal(t, 80, lions.RunsAgainst)

	bears := byID["bears"]
	assert.Equal(t, 2, bears.Played)
	assert.Equal(t, 1, bears.Won)
	assert.Equal(t, 3, bears.Points)
	assert.Equal(t, 71, bears.RunsFor)

	tigers := byID["tigers"]
	assert.Equal(t, 1, tigers.Lost)
	assert.Equal(t, 1, tigers.Points)

	assert.Equal(t, "bears", rows[0].TeamID)
}

func TestCompute_MatchWithoutInningsIgnored(t *testing.T) {
	rec := MatchRecord{Match: domain.Match{ID: "m1", TeamAID: "lions", TeamBID: "tigers", Status: domain.MatchFinished}}
	assert.Empty(t, Compute(groupInput(rec))[0].Rows)
}
