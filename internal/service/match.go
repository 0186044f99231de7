package service

import (
	"context"
	"fmt"

	"cricket-score/internal/constants"
	"cricket-score/internal/domain"
	"cricket-score/internal/live"
	"cricket-score/internal/repository"
	"cricket-score/internal/scoring"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Publisher delivers committed changes to viewers.
type Publisher interface {
	Publish(ctx context.Context, msgs ...live.Message)
}

// MatchService runs every scoring command as load, apply, commit, publish
// while holding the match's lock.
type MatchService struct {
	matches *repository.MatchRepository
	roster  *repository.RosterRepository
	stats   *repository.StatsRepository
	engine  *scoring.Engine
	locks   *MatchLocks
	pub     Publisher
	logger  zerolog.Logger
}

func NewMatchService(
	matches *repository.MatchRepository,
	roster *repository.RosterRepository,
	stats *repository.StatsRepository,
	engine *scoring.Engine,
	locks *MatchLocks,
	pub Publisher,
	logger zerolog.Logger,
) *MatchService {
	return &MatchService{
		matches: matches,
		roster:  roster,
		stats:   stats,
		engine:  engine,
		locks:   locks,
		pub:     pub,
		logger:  logger,
	}
}

type BallResult struct {
	Ball          BallView     `json:"ball"`
	Match         MatchInfo    `json:"match"`
	State         *StateView   `json:"state"`
	OverCompleted int          `json:"overCompleted,omitempty"`
	InningsEnded  bool         `json:"inningsEnded"`
	Result        *ResultView  `json:"result,omitempty"`
	Innings       *InningsView `json:"innings"`
}

// loadStarted is load for commands that need a match in progress.
func (s *MatchService) loadStarted(ctx context.Context, matchID string) (*scoring.Snapshot, error) {
	snap, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if snap.Innings.ID == "" {
		return nil, notStarted(matchID)
	}
	return snap, nil
}

// load reads everything the engine needs. A match that was never started
// comes back with a zero State and no innings.
func (s *MatchService) load(ctx context.Context, matchID string) (*scoring.Snapshot, error) {
	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	snap := &scoring.Snapshot{Match: *m}

	st, err := s.matches.GetState(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return snap, nil
	}
	snap.State = *st

	innings, err := s.matches.ListInnings(ctx, matchID)
	if err != nil {
		return nil, err
	}
	snap.InningsCount = len(innings)
	found := false
	for _, inn := range innings {
		if inn.Number == 1 {
			first := inn
			snap.First = &first
		}
		if inn.ID == st.CurrentInningsID {
			snap.Innings = inn
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("current innings %s of match %s: %w", st.CurrentInningsID, matchID, domain.ErrNotFound)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.matches.CountDeliveries(gCtx, snap.Innings.ID)
		snap.Deliveries = n
		return err
	})
	g.Go(func() error {
		squad, err := s.roster.ListPlayers(gCtx, snap.Innings.BattingTeamID)
		snap.BattingSquad = squad
		return err
	})
	g.Go(func() error {
		squad, err := s.roster.ListPlayers(gCtx, snap.Innings.BowlingTeamID)
		snap.BowlingSquad = squad
		return err
	})
	g.Go(func() error {
		out, err := s.stats.OutPlayers(gCtx, matchID)
		snap.Out = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *MatchService) Start(ctx context.Context, matchID string, req scoring.StartRequest) (*MatchView, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	existing, err := s.matches.GetState(ctx, matchID)
	if err != nil {
		return nil, err
	}

	squads := make(map[string][]domain.Player, 2)
	if existing == nil {
		for _, teamID := range []string{m.TeamAID, m.TeamBID} {
			squad, err := s.roster.ListPlayers(ctx, teamID)
			if err != nil {
				return nil, err
			}
			squads[teamID] = squad
		}
	}

	out, err := s.engine.Start(*m, existing, squads, req)
	if err != nil {
		return nil, err
	}

	cs := repository.Changeset{Match: &out.Match, State: &out.State}
	if out.Innings != nil {
		cs.NewInnings = []domain.Innings{*out.Innings}
	}
	if err := s.matches.Commit(ctx, cs); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to commit match start")
		return nil, err
	}

	s.logger.Info().
		Str("match_id", matchID).
		Bool("resumed", existing != nil).
		Int("max_overs", out.Match.MaxOvers).
		Msg("match started")

	view := matchView(out.Match, &out.State)
	s.pub.Publish(ctx, live.NewMessage(live.TypeStateUpdate, matchID, view))
	return view, nil
}

// SetBowler assigns the bowler for the next ball; an empty id clears the seat.
func (s *MatchService) SetBowler(ctx context.Context, matchID, bowlerID string) (*MatchView, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.loadStarted(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var (
		bowler *domain.Player
		bowled int
	)
	if bowlerID != "" {
		bowler, err = s.roster.GetPlayer(ctx, bowlerID)
		if err != nil {
			return nil, err
		}
		bowled, err = s.matches.BowlerLegalBalls(ctx, snap.Innings.ID, bowlerID)
		if err != nil {
			return nil, err
		}
	}

	st, err := s.engine.SetBowler(*snap, bowler, bowled)
	if err != nil {
		return nil, err
	}
	return s.commitState(ctx, snap.Match, st)
}

func (s *MatchService) ResolveNewBatter(ctx context.Context, matchID, playerID string, end domain.End) (*MatchView, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.loadStarted(ctx, matchID)
	if err != nil {
		return nil, err
	}
	p, err := s.roster.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	st, err := s.engine.ResolveNewBatter(*snap, *p, end)
	if err != nil {
		return nil, err
	}

	next := *snap
	next.State = st
	tr := s.engine.Advance(next)
	if tr.Kind == scoring.NoTransition {
		return s.commitState(ctx, snap.Match, st)
	}

	cs := repository.Changeset{State: &tr.State}
	withTransition(&cs, tr)
	if err := s.matches.Commit(ctx, cs); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to commit new batter")
		return nil, err
	}
	view := matchView(tr.Match, &tr.State)
	msgs := append(s.transitionMessages(tr), live.NewMessage(live.TypeStateUpdate, matchID, view))
	s.pub.Publish(ctx, msgs...)
	return view, nil
}

func (s *MatchService) ResolveOpeners(ctx context.Context, matchID, strikerID, nonStrikerID, bowlerID string) (*MatchView, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.loadStarted(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if strikerID == "" || nonStrikerID == "" {
		return nil, fmt.Errorf("both openers are required: %w", domain.ErrInvalidPlayer)
	}

	striker, err := s.roster.GetPlayer(ctx, strikerID)
	if err != nil {
		return nil, err
	}
	nonStriker, err := s.roster.GetPlayer(ctx, nonStrikerID)
	if err != nil {
		return nil, err
	}
	var bowler *domain.Player
	if bowlerID != "" {
		if bowler, err = s.roster.GetPlayer(ctx, bowlerID); err != nil {
			return nil, err
		}
	}

	st, err := s.engine.ResolveOpeners(*snap, *striker, *nonStriker, bowler)
	if err != nil {
		return nil, err
	}
	return s.commitState(ctx, snap.Match, st)
}

func (s *MatchService) commitState(ctx context.Context, m domain.Match, st domain.MatchState) (*MatchView, error) {
	if err := s.matches.Commit(ctx, repository.Changeset{State: &st}); err != nil {
		s.logger.Error().Err(err).Str("match_id", m.ID).Msg("failed to commit state")
		return nil, err
	}
	view := matchView(m, &st)
	s.pub.Publish(ctx, live.NewMessage(live.TypeStateUpdate, m.ID, view))
	return view, nil
}

// withTransition folds what Advance decided into cs.
func withTransition(cs *repository.Changeset, tr scoring.Transition) {
	switch tr.Kind {
	case scoring.InningsBreak:
		cs.Innings = []domain.Innings{*tr.Ended}
		cs.NewInnings = []domain.Innings{*tr.Next}
	case scoring.MatchOver:
		cs.Innings = []domain.Innings{*tr.Ended}
		cs.Match = &tr.Match
		cs.Result = tr.Result
	}
}

func (s *MatchService) transitionMessages(tr scoring.Transition) []live.Message {
	matchID := tr.Match.ID
	switch tr.Kind {
	case scoring.InningsBreak:
		next := inningsView(*tr.Next)
		s.logger.Info().Str("match_id", matchID).Int("target", tr.Target).Msg("innings break")
		return []live.Message{live.NewMessage(live.TypeInningsChanged, matchID, InningsChangedPayload{
			InningsNo: next.Number,
			Target:    tr.Target,
			Ended:     inningsView(*tr.Ended),
			Next:      &next,
		})}
	case scoring.MatchOver:
		s.logger.Info().
			Str("match_id", matchID).
			Str("winner", tr.Result.WinnerTeamID).
			Bool("tie", tr.Result.IsTie).
			Msg("match finished")
		return []live.Message{live.NewMessage(live.TypeMatchFinished, matchID, MatchFinishedPayload{
			TeamAID:      tr.Match.TeamAID,
			TeamBID:      tr.Match.TeamBID,
			TotalA:       tr.Totals[tr.Match.TeamAID],
			TotalB:       tr.Totals[tr.Match.TeamBID],
			WinnerTeamID: tr.Result.WinnerTeamID,
			IsTie:        tr.Result.IsTie,
			Result:       resultView(*tr.Result),
		})}
	}
	return nil
}

// ApplyBall scores one delivery, runs the end-of-innings and end-of-match
// checks, and commits everything in one transaction.
func (s *MatchService) ApplyBall(ctx context.Context, matchID string, d scoring.Delivery) (*BallResult, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.loadStarted(ctx, matchID)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.ApplyBall(*snap, d)
	if err != nil {
		return nil, err
	}
	tr := s.engine.Advance(out.Next(*snap))

	stats := []domain.PlayerStats{out.Batter, out.Bowler}
	if dis := out.Dismissal; dis != nil && dis.PlayerID != "" {
		stats = append(stats, domain.PlayerStats{
			MatchID:  matchID,
			PlayerID: dis.PlayerID,
			TeamID:   dis.TeamID,
			IsOut:    true,
			HowOut:   dis.HowOut,
		})
	}

	cs := repository.Changeset{
		Innings: []domain.Innings{out.Innings},
		State:   &tr.State,
		Event:   &out.Event,
		Stats:   stats,
	}
	withTransition(&cs, tr)

	if err := s.matches.Commit(ctx, cs); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to commit ball")
		return nil, err
	}

	s.logger.Debug().
		Str("match_id", matchID).
		Int("seq", out.Event.Seq).
		Str("kind", string(out.Event.Kind)).
		Int("runs", out.Event.Runs).
		Bool("wicket", out.Event.Wicket).
		Str("last_event", tr.State.LastEvent).
		Msg("ball applied")

	view := stateView(&tr.State)
	res := &BallResult{
		Ball:          ballView(out.Event),
		Match:         matchInfo(tr.Match),
		State:         view,
		OverCompleted: out.OverCompleted,
		InningsEnded:  tr.Kind != scoring.NoTransition,
	}
	current := inningsView(out.Innings)
	if tr.Ended != nil {
		current = inningsView(*tr.Ended)
	}
	res.Innings = &current

	var msgs []live.Message
	if out.OverCompleted > 0 {
		msgs = append(msgs, live.NewMessage(live.TypeOverComplete, matchID, OverCompletePayload{
			Over:     out.OverCompleted,
			BowlerID: out.Event.BowlerID,
			State:    view,
		}))
	}
	if tr.Kind == scoring.MatchOver {
		rv := resultView(*tr.Result)
		res.Result = &rv
	}
	msgs = append(msgs, s.transitionMessages(tr)...)
	msgs = append(msgs, live.NewMessage(live.TypeStateUpdate, matchID, matchView(tr.Match, &tr.State)))
	s.pub.Publish(ctx, msgs...)

	return res, nil
}

// RebuildMatch recomputes innings tallies, player stats and the live counters
// from the ball log and rewrites them in one transaction.
func (s *MatchService) RebuildMatch(ctx context.Context, matchID string) (*MatchView, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	st, err := s.matches.GetState(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, notStarted(matchID)
	}
	innings, err := s.matches.ListInnings(ctx, matchID)
	if err != nil {
		return nil, err
	}
	events, err := s.matches.ListBallEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}

	proj, err := scoring.Rebuild(matchID, innings, events)
	if err != nil {
		return nil, err
	}

	stats := make([]domain.PlayerStats, 0, len(proj.Stats))
	for _, ps := range proj.Stats {
		stats = append(stats, *ps)
	}
	// the cursor only mirrors the innings it points at
	for _, inn := range proj.Innings {
		if inn.ID == st.CurrentInningsID {
			st.Runs, st.Wickets, st.Balls = inn.Runs, inn.Wickets, inn.LegalBalls
		}
	}
	if n := len(proj.Innings); n > 0 && proj.Innings[n-1].ID == st.CurrentInningsID {
		st.NextBallFreeHit = proj.NextBallFreeHit
	}

	if err := s.matches.Commit(ctx, repository.Changeset{
		Innings:    proj.Innings,
		State:      st,
		ResetStats: true,
		Stats:      stats,
	}); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to commit rebuild")
		return nil, err
	}

	s.logger.Info().
		Str("match_id", matchID).
		Int("events", len(events)).
		Int("players", len(stats)).
		Msg("match projections rebuilt")

	view := matchView(*m, st)
	s.pub.Publish(ctx, live.NewMessage(live.TypeStateUpdate, matchID, view))
	return view, nil
}
