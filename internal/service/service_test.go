package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cricket-score/internal/database"
	"cricket-score/internal/db"
	"cricket-score/internal/domain"
	"cricket-score/internal/live"
	"cricket-score/internal/repository"
	"cricket-score/internal/scoring"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]live.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msgs ...live.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, msgs)
}

func (p *recordingPublisher) last(t live.MessageType) (live.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.batches) - 1; i >= 0; i-- {
		for _, m := range p.batches[i] {
			if m.Type == t {
				return m, true
			}
		}
	}
	return live.Message{}, false
}

// lastTypes returns the message types of the most recent publish.
func (p *recordingPublisher) lastTypes() []live.MessageType {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.batches) == 0 {
		return nil
	}
	last := p.batches[len(p.batches)-1]
	types := make([]live.MessageType, len(last))
	for i, m := range last {
		types[i] = m.Type
	}
	return types
}

type fixture struct {
	matches   *MatchService
	standings *StandingsService
	roster    *RosterService
	stats     *repository.StatsRepository
	store     *repository.MatchRepository
	pub       *recordingPublisher

	tournamentID string
	match        MatchInfo
	players      map[string]string // name -> id
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "svc.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	logger := zerolog.Nop()
	rosterRepo := repository.NewRosterRepository(sqlDB, queries, logger)
	matchRepo := repository.NewMatchRepository(sqlDB, queries, logger)
	statsRepo := repository.NewStatsRepository(sqlDB, queries, logger)
	pub := &recordingPublisher{}

	f := &fixture{
		matches:   NewMatchService(matchRepo, rosterRepo, statsRepo, scoring.New(), NewMatchLocks(), pub, logger),
		standings: NewStandingsService(rosterRepo, matchRepo, statsRepo, logger),
		roster:    NewRosterService(rosterRepo, scoring.DefaultMaxOvers, logger),
		stats:     statsRepo,
		store:     matchRepo,
		pub:       pub,
		players:   make(map[string]string),
	}

	ctx := context.Background()
	summary, err := f.roster.Import(ctx, repository.ImportBatch{
		Tournament: &domain.Tournament{Name: "Summer Cup"},
		Teams: []domain.Team{
			{Name: "Lions", ShortName: "LIO"},
			{Name: "Tigers", ShortName: "TIG"},
		},
		Players: []repository.ImportPlayer{
			{TeamName: "Lions", Player: domain.Player{FullName: "Ann"}},
			{TeamName: "Lions", Player: domain.Player{FullName: "Ben"}},
			{TeamName: "Lions", Player: domain.Player{FullName: "Eve"}},
			{TeamName: "Tigers", Player: domain.Player{FullName: "Cat"}},
			{TeamName: "Tigers", Player: domain.Player{FullName: "Dan"}},
		},
		Groups: []string{"A"},
		GroupTeams: []repository.ImportGroupTeam{
			{GroupName: "A", TeamName: "Lions"},
			{GroupName: "A", TeamName: "Tigers"},
		},
		Matches: []repository.ImportMatch{
			{Title: "Lions v Tigers", TeamA: "Lions", TeamB: "Tigers", GroupName: "A", MaxOvers: 7},
		},
	})
	require.NoError(t, err)
	f.tournamentID = summary.TournamentID

	list, err := f.matches.ListMatches(ctx, repository.MatchFilter{TournamentID: summary.TournamentID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	f.match = list[0]

	all, err := f.roster.ListPlayers(ctx, "")
	require.NoError(t, err)
	for _, p := range all {
		f.players[p.FullName] = p.ID
	}
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	_, err := f.matches.Start(context.Background(), f.match.ID, scoring.StartRequest{
		BattingTeamID: f.match.TeamAID,
		BowlingTeamID: f.match.TeamBID,
		StrikerID:     f.players["Ann"],
		NonStrikerID:  f.players["Ben"],
		BowlerID:      f.players["Cat"],
	})
	require.NoError(t, err)
}

func (f *fixture) ball(t *testing.T, d scoring.Delivery) *BallResult {
	t.Helper()
	res, err := f.matches.ApplyBall(context.Background(), f.match.ID, d)
	require.NoError(t, err)
	return res
}

func TestImportNormalizesOvers(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, scoring.DefaultMaxOvers, f.match.MaxOvers)
	assert.Equal(t, string(domain.MatchScheduled), f.match.Status)

	_, err := f.roster.Import(context.Background(), repository.ImportBatch{
		Matches: []repository.ImportMatch{{Title: "x", TeamA: "Lions"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFullMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.match.ID

	_, err := f.matches.ApplyBall(ctx, id, scoring.Delivery{Runs: 1})
	require.ErrorIs(t, err, domain.ErrNotFound, "balls before start")

	f.start(t)
	assert.Equal(t, []live.MessageType{live.TypeStateUpdate}, f.pub.lastTypes())

	// Ann takes a single, Ben is bowled
	f.ball(t, scoring.Delivery{Runs: 1})
	res := f.ball(t, scoring.Delivery{Wicket: true, DismissalType: "bowled"})
	assert.True(t, res.State.WaitingForNewBatter)
	assert.Equal(t, string(domain.EndStriker), res.State.WaitingForNewBatterEnd)
	assert.Equal(t, []live.MessageType{live.TypeStateUpdate}, f.pub.lastTypes())

	_, err = f.matches.ApplyBall(ctx, id, scoring.Delivery{})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	opts, err := f.matches.NewBatterOptions(ctx, id)
	require.NoError(t, err)
	assert.True(t, opts.Waiting)
	require.Len(t, opts.Players, 1)
	assert.Equal(t, f.players["Eve"], opts.Players[0].ID)

	_, err = f.matches.ResolveNewBatter(ctx, id, f.players["Ben"], "")
	require.ErrorIs(t, err, domain.ErrInvalidPlayer, "dismissed batter cannot return")

	view, err := f.matches.ResolveNewBatter(ctx, id, f.players["Eve"], "")
	require.NoError(t, err)
	assert.Equal(t, f.players["Eve"], view.State.Striker.PlayerID)

	_, err = f.matches.ResolveNewBatter(ctx, id, f.players["Eve"], "")
	require.ErrorIs(t, err, domain.ErrNotWaiting)

	for range 3 {
		f.ball(t, scoring.Delivery{})
	}
	res = f.ball(t, scoring.Delivery{})
	assert.Equal(t, 1, res.OverCompleted)
	assert.Nil(t, res.State.Bowler)
	assert.Equal(t, "1.0", res.State.Overs)
	assert.Equal(t, []live.MessageType{live.TypeOverComplete, live.TypeStateUpdate}, f.pub.lastTypes())

	_, err = f.matches.ApplyBall(ctx, id, scoring.Delivery{})
	require.ErrorIs(t, err, domain.ErrInvalidState, "no bowler")

	_, err = f.matches.SetBowler(ctx, id, f.players["Dan"])
	require.NoError(t, err)

	// Ann is bowled: two wickets with three batters ends the innings
	res = f.ball(t, scoring.Delivery{Wicket: true, DismissalType: "bowled"})
	assert.True(t, res.InningsEnded)
	assert.Nil(t, res.Result)
	assert.Equal(t, []live.MessageType{live.TypeInningsChanged, live.TypeStateUpdate}, f.pub.lastTypes())
	assert.True(t, res.State.WaitingForOpeners)
	assert.Equal(t, 2, res.State.Target)

	openers, err := f.matches.OpenersOptions(ctx, id)
	require.NoError(t, err)
	assert.True(t, openers.Waiting)
	assert.Equal(t, f.match.TeamBID, openers.BattingTeamID)
	assert.Len(t, openers.Batters, 2)
	assert.Len(t, openers.Bowlers, 3)

	_, err = f.matches.ResolveOpeners(ctx, id, f.players["Cat"], f.players["Ann"], "")
	require.ErrorIs(t, err, domain.ErrInvalidPlayer)

	_, err = f.matches.ResolveOpeners(ctx, id, f.players["Cat"], f.players["Dan"], f.players["Eve"])
	require.NoError(t, err)

	chase, err := f.matches.ChaseInfo(ctx, id)
	require.NoError(t, err)
	assert.True(t, chase.Active)
	assert.Equal(t, 2, chase.Need)
	assert.Equal(t, 36, chase.BallsLeft)
	assert.InDelta(t, 0.33, chase.RequiredRunRate, 0.001)

	res = f.ball(t, scoring.Delivery{Runs: 2})
	require.NotNil(t, res.Result)
	assert.Equal(t, f.match.TeamBID, res.Result.WinnerTeamID)
	assert.False(t, res.Result.IsTie)
	assert.Equal(t, string(domain.MatchFinished), res.Match.Status)
	assert.Equal(t, []live.MessageType{live.TypeMatchFinished, live.TypeStateUpdate}, f.pub.lastTypes())

	msg, ok := f.pub.last(live.TypeMatchFinished)
	require.True(t, ok)
	fin, ok := msg.Payload.(MatchFinishedPayload)
	require.True(t, ok)
	assert.Equal(t, 1, fin.TotalA)
	assert.Equal(t, 2, fin.TotalB)
	assert.Equal(t, f.match.TeamBID, fin.WinnerTeamID)

	msg, ok = f.pub.last(live.TypeInningsChanged)
	require.True(t, ok)
	brk, ok := msg.Payload.(InningsChangedPayload)
	require.True(t, ok)
	assert.Equal(t, 2, brk.InningsNo)
	assert.Equal(t, 2, brk.Target)

	_, err = f.matches.ApplyBall(ctx, id, scoring.Delivery{})
	require.ErrorIs(t, err, domain.ErrInvalidState, "finished match")

	finished, err := f.matches.GetMatch(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, finished.Result)
	assert.Equal(t, f.match.TeamBID, finished.Result.WinnerTeamID)

	totals, err := f.matches.Totals(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{f.match.TeamAID: 1, f.match.TeamBID: 2}, totals)

	innings, err := f.matches.Innings(ctx, id)
	require.NoError(t, err)
	require.Len(t, innings, 2)
	assert.Equal(t, "1.1", innings[0].Overs)
	assert.True(t, innings[0].Finished)
	assert.True(t, innings[1].Finished)

	t.Run("scorecard", func(t *testing.T) {
		cards, err := f.matches.Scorecard(ctx, id)
		require.NoError(t, err)
		lions := cards[f.match.TeamAID]
		require.NotNil(t, lions)
		require.Len(t, lions.Batting, 3)
		byName := make(map[string]BattingRow)
		for _, row := range lions.Batting {
			byName[row.Name] = row
		}
		assert.Equal(t, 1, byName["Ann"].Runs)
		assert.Equal(t, 2, byName["Ann"].Balls)
		assert.True(t, byName["Ben"].IsOut)
		assert.Equal(t, 4, byName["Eve"].Balls)
		assert.False(t, byName["Eve"].IsOut)

		tigers := cards[f.match.TeamBID]
		require.NotNil(t, tigers)
		bowlers := make(map[string]BowlingRow)
		for _, row := range tigers.Bowling {
			bowlers[row.Name] = row
		}
		assert.Equal(t, "1.0", bowlers["Cat"].Overs)
		assert.Equal(t, 1, bowlers["Cat"].Wickets)
		assert.Equal(t, "0.1", bowlers["Dan"].Overs)
	})

	t.Run("rebuild matches incremental projections", func(t *testing.T) {
		before, err := f.matches.GetMatch(ctx, id)
		require.NoError(t, err)
		statsBefore, err := f.stats.ListByMatch(ctx, id)
		require.NoError(t, err)
		inningsBefore, err := f.matches.Innings(ctx, id)
		require.NoError(t, err)

		after, err := f.matches.RebuildMatch(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before.State.Runs, after.State.Runs)
		assert.Equal(t, before.State.Wickets, after.State.Wickets)
		assert.Equal(t, before.State.Balls, after.State.Balls)

		statsAfter, err := f.stats.ListByMatch(ctx, id)
		require.NoError(t, err)
		assert.ElementsMatch(t, statsBefore, statsAfter)

		inningsAfter, err := f.matches.Innings(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, inningsBefore, inningsAfter)
	})

	t.Run("standings", func(t *testing.T) {
		tables, err := f.standings.Standings(ctx, f.tournamentID)
		require.NoError(t, err)
		require.Len(t, tables, 1)
		require.Len(t, tables[0].Rows, 2)
		top := tables[0].Rows[0]
		assert.Equal(t, f.match.TeamBID, top.TeamID)
		assert.Equal(t, 2, top.Points)
		assert.Equal(t, 1, top.Won)
		assert.Equal(t, 1, tables[0].Rows[1].Lost)
	})

	t.Run("leaders", func(t *testing.T) {
		leaders, err := f.standings.Leaders(ctx, f.tournamentID, "", 2)
		require.NoError(t, err)
		require.Len(t, leaders, 2)
		assert.Equal(t, f.players["Cat"], leaders[0].PlayerID)
		assert.Equal(t, 2, leaders[0].Runs)
	})
}

func TestAllOutWithTwoPlayers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.matches.Start(ctx, f.match.ID, scoring.StartRequest{
		BattingTeamID: f.match.TeamBID,
		BowlingTeamID: f.match.TeamAID,
		StrikerID:     f.players["Cat"],
		NonStrikerID:  f.players["Dan"],
		MaxOvers:      20,
	})
	require.NoError(t, err)

	_, err = f.matches.SetBowler(ctx, f.match.ID, f.players["Ann"])
	require.NoError(t, err)

	res := f.ball(t, scoring.Delivery{Wicket: true, DismissalType: "caught"})
	assert.True(t, res.InningsEnded)
	assert.False(t, res.State.WaitingForNewBatter)
	assert.True(t, res.State.WaitingForOpeners)
	assert.Equal(t, 20, res.Match.MaxOvers)
}

func TestFreeHitNullifiesBowled(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	res := f.ball(t, scoring.Delivery{Kind: domain.KindNoBall})
	assert.True(t, res.State.NextBallFreeHit)
	assert.Equal(t, 1, res.State.Runs)
	assert.Equal(t, 0, res.State.Balls)

	res = f.ball(t, scoring.Delivery{Wicket: true, DismissalType: "bowled"})
	assert.False(t, res.Ball.Wicket)
	assert.Equal(t, 0, res.State.Wickets)
	assert.Equal(t, f.players["Ann"], res.State.Striker.PlayerID)
	assert.False(t, res.State.NextBallFreeHit)
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.matches.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.matches.ApplyBall(ctx, "missing", scoring.Delivery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.matches.Exists(ctx, "missing"), domain.ErrNotFound)

	t.Run("match not started", func(t *testing.T) {
		id := f.match.ID
		_, err := f.matches.SetBowler(ctx, id, f.players["Cat"])
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.matches.ResolveNewBatter(ctx, id, f.players["Eve"], "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.matches.ResolveOpeners(ctx, id, f.players["Ann"], f.players["Ben"], "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.matches.NewBatterOptions(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.matches.OpenersOptions(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.matches.RebuildMatch(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.pub.batches)
	})

	chase, err := f.matches.ChaseInfo(ctx, f.match.ID)
	require.NoError(t, err)
	assert.False(t, chase.Active)
}

func TestMatchLocks(t *testing.T) {
	locks := NewMatchLocks()

	unlock := locks.Lock("m1")
	assert.Equal(t, 1, locks.size())

	acquired := make(chan struct{})
	go func() {
		release := locks.Lock("m1")
		close(acquired)
		release()
	}()

	other := locks.Lock("m2")
	other()

	select {
	case <-acquired:
		t.Fatal("second holder got the lock while the first still held it")
	default:
	}

	unlock()
	<-acquired
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 10*time.Millisecond)
}

func TestNewBatterReevaluatesProgression(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.match.ID

	f.start(t)
	f.ball(t, scoring.Delivery{Runs: 1})
	f.ball(t, scoring.Delivery{Wicket: true, DismissalType: "bowled"})

	// the innings ran out of balls while the gate was open
	innings, err := f.store.ListInnings(ctx, id)
	require.NoError(t, err)
	require.Len(t, innings, 1)
	first := innings[0]
	first.LegalBalls = scoring.BallLimit(f.match.MaxOvers)
	require.NoError(t, f.store.Commit(ctx, repository.Changeset{Innings: []domain.Innings{first}}))

	view, err := f.matches.ResolveNewBatter(ctx, id, f.players["Eve"], "")
	require.NoError(t, err)
	assert.True(t, view.State.WaitingForOpeners)
	assert.Equal(t, []live.MessageType{live.TypeInningsChanged, live.TypeStateUpdate}, f.pub.lastTypes())

	msg, ok := f.pub.last(live.TypeInningsChanged)
	require.True(t, ok)
	brk, ok := msg.Payload.(InningsChangedPayload)
	require.True(t, ok)
	assert.Equal(t, 2, brk.InningsNo)
	assert.Equal(t, 2, brk.Target)
	assert.True(t, brk.Ended.Finished)

	innings, err = f.store.ListInnings(ctx, id)
	require.NoError(t, err)
	assert.Len(t, innings, 2)
}

func TestReadsHonorCallerContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.matches.GetMatch(ctx, f.match.ID)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = f.matches.Innings(ctx, f.match.ID)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = f.roster.ListTeams(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
