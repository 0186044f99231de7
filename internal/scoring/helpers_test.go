package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cricket-score/internal/domain"
)

var fixedNow = time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)

// newTestEngine returns an engine with sequential ids and a frozen clock.
func newTestEngine() *Engine {
	n := 0
	next := func(prefix string) func() string {
		return func() string {
			n++
			return fmt.Sprintf("%s-%d", prefix, n)
		}
	}
	return &Engine{
		NewID:      next("id"),
		NewEventID: next("ev"),
		Now:        func() time.Time { return fixedNow },
	}
}

func testSquad(teamID string, n int) []domain.Player {
	squad := make([]domain.Player, n)
	for i := range squad {
		squad[i] = domain.Player{
			ID:       fmt.Sprintf("%s%d", teamID, i+1),
			TeamID:   teamID,
			FullName: fmt.Sprintf("%s Player %d", teamID, i+1),
		}
	}
	return squad
}

// match drives a match through the engine the way the service does and keeps
// the log so replays can be checked against it.
type match struct {
	t      *testing.T
	e      *Engine
	s      Snapshot
	squads map[string][]domain.Player

	innings []domain.Innings
	events  []domain.BallEvent
	stats   map[string]*domain.PlayerStats

	lastTransition Transition
}

func startTestMatch(t *testing.T, maxOvers, players int) *match {
	t.Helper()
	e := newTestEngine()
	squads := map[string][]domain.Player{
		"A": testSquad("A", players),
		"B": testSquad("B", players),
	}
	m := domain.Match{ID: "m1", Title: "A v B", TeamAID: "A", TeamBID: "B", MaxOvers: maxOvers, Status: domain.MatchScheduled}
	out, err := e.Start(m, nil, squads, StartRequest{
		BattingTeamID: "A",
		BowlingTeamID: "B",
		StrikerID:     "A1",
		NonStrikerID:  "A2",
		BowlerID:      "B1",
		MaxOvers:      maxOvers,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Innings)

	first := *out.Innings
	return &match{
		t:      t,
		e:      e,
		squads: squads,
		s: Snapshot{
			Match:        out.Match,
			State:        out.State,
			Innings:      *out.Innings,
			First:        &first,
			InningsCount: 1,
			BattingSquad: squads["A"],
			BowlingSquad: squads["B"],
			Out:          map[string]bool{},
		},
		innings: []domain.Innings{*out.Innings},
		stats:   map[string]*domain.PlayerStats{},
	}
}

func (m *match) addStat(delta domain.PlayerStats) {
	cur, ok := m.stats[delta.PlayerID]
	if !ok {
		cur = &domain.PlayerStats{MatchID: m.s.Match.ID, PlayerID: delta.PlayerID}
		m.stats[delta.PlayerID] = cur
	}
	cur.Add(delta)
}

func (m *match) setInnings(inn domain.Innings) {
	for i := range m.innings {
		if m.innings[i].ID == inn.ID {
			m.innings[i] = inn
			return
		}
	}
	m.innings = append(m.innings, inn)
}

// ball bowls one delivery, picking a fresh bowler first when the seat is empty.
func (m *match) ball(d Delivery) *BallOutcome {
	m.t.Helper()
	if !m.s.State.Bowler.Occupied() {
		m.pickBowler()
	}
	out, err := m.e.ApplyBall(m.s, d)
	require.NoError(m.t, err)

	m.events = append(m.events, out.Event)
	m.addStat(out.Batter)
	m.addStat(out.Bowler)
	if out.Dismissal != nil {
		m.addStat(domain.PlayerStats{PlayerID: out.Dismissal.PlayerID, TeamID: out.Dismissal.TeamID, IsOut: true, HowOut: out.Dismissal.HowOut})
	}
	m.s = out.Next(m.s)
	m.setInnings(m.s.Innings)
	m.advance()
	return out
}

func (m *match) advance() {
	tr := m.e.Advance(m.s)
	m.lastTransition = tr
	m.s.Match = tr.Match
	m.s.State = tr.State
	switch tr.Kind {
	case InningsBreak:
		m.setInnings(*tr.Ended)
		first := *tr.Ended
		m.s.First = &first
		m.s.Innings = *tr.Next
		m.s.InningsCount = 2
		m.s.Deliveries = 0
		m.s.Out = map[string]bool{}
		m.s.BattingSquad = m.squads[tr.Next.BattingTeamID]
		m.s.BowlingSquad = m.squads[tr.Next.BowlingTeamID]
		m.setInnings(*tr.Next)
	case MatchOver:
		m.s.Innings = *tr.Ended
		m.setInnings(*tr.Ended)
	}
}

// pickBowler rotates through the bowling side so nobody hits the over cap.
func (m *match) pickBowler() {
	m.t.Helper()
	over := m.s.Innings.LegalBalls / BallsPerOver
	p := m.s.BowlingSquad[over%len(m.s.BowlingSquad)]
	st, err := m.e.SetBowler(m.s, &p, 0)
	require.NoError(m.t, err)
	m.s.State = st
}

// newBatter sends in the next eligible batter at the pending end.
func (m *match) newBatter() {
	m.t.Helper()
	eligible := EligibleBatters(m.s)
	require.NotEmpty(m.t, eligible)
	st, err := m.e.ResolveNewBatter(m.s, eligible[0], "")
	require.NoError(m.t, err)
	m.s.State = st
	m.advance()
}

func (m *match) openers(striker, nonStriker string) {
	m.t.Helper()
	squad := m.s.BattingSquad
	s, _ := findPlayer(squad, striker)
	ns, _ := findPlayer(squad, nonStriker)
	st, err := m.e.ResolveOpeners(m.s, s, ns, nil)
	require.NoError(m.t, err)
	m.s.State = st
}

func runs(n int) Delivery {
	return Delivery{Kind: domain.KindNormal, Runs: n}
}

func bowled() Delivery {
	return Delivery{Kind: domain.KindNormal, Wicket: true, DismissalType: "bowled"}
}
