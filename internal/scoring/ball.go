package scoring

import (
	"fmt"
	"strings"

	"cricket-score/internal/domain"
)

// Delivery is one ball as submitted by the scorer.
type Delivery struct {
	Runs          int // off the bat, or byes for bye/leg-bye
	Wicket        bool
	Kind          domain.DeliveryKind
	DismissalType string
	OutEnd        domain.End // run-outs only, defaults to striker
	Note          string
}

type Dismissal struct {
	PlayerID string
	TeamID   string
	HowOut   string
	End      domain.End
}

// BallOutcome is everything one applied delivery changes.
type BallOutcome struct {
	Event     domain.BallEvent
	Innings   domain.Innings
	State     domain.MatchState
	Batter    domain.PlayerStats // increments
	Bowler    domain.PlayerStats // increments
	Dismissal *Dismissal
	// OverCompleted is the number of the over this ball closed, or 0.
	OverCompleted int
}

// Next returns the snapshot as it stands after the outcome.
func (o *BallOutcome) Next(prev Snapshot) Snapshot {
	next := prev
	next.State = o.State
	next.Innings = o.Innings
	next.Deliveries = prev.Deliveries + 1
	if prev.First != nil && prev.First.ID == o.Innings.ID {
		first := o.Innings
		next.First = &first
	}
	next.Out = make(map[string]bool, len(prev.Out)+1)
	for id := range prev.Out {
		next.Out[id] = true
	}
	if o.Dismissal != nil && o.Dismissal.PlayerID != "" {
		next.Out[o.Dismissal.PlayerID] = true
	}
	return next
}

// IsRunOut matches "runout", "run-out", "run out" and "run_out" in any case.
func IsRunOut(dismissalType string) bool {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(dismissalType))
	return strings.Contains(norm, "runout")
}

// tally is the scoring effect of one delivery. ApplyBall and Rebuild share it
// so the live projections and the replayed ones cannot drift.
type tally struct {
	legal    bool
	teamRuns int
	extras   int
	batRuns  int
	faced    bool
	wicket   bool
	runOut   bool
}

func score(kind domain.DeliveryKind, runs int, wicket bool, dismissalType string, freeHit bool) tally {
	t := tally{
		legal:  kind.Legal(),
		faced:  kind != domain.KindWide,
		runOut: IsRunOut(dismissalType),
		wicket: wicket,
	}
	if freeHit && t.wicket && !t.runOut {
		t.wicket = false
	}

	penalty := 0
	if !t.legal {
		penalty = PenaltyRuns
	}
	switch kind {
	case domain.KindBye, domain.KindLegBye:
		t.teamRuns = runs
		t.extras = runs
	case domain.KindNormal, domain.KindNoBall:
		t.teamRuns = penalty + runs
		t.extras = penalty
		t.batRuns = runs
	case domain.KindWide:
		t.teamRuns = penalty
		t.extras = penalty
	}
	return t
}

func (t tally) apply(inn *domain.Innings) {
	inn.Runs += t.teamRuns
	inn.Extras += t.extras
	if t.wicket {
		inn.Wickets++
	}
	if t.legal {
		inn.LegalBalls++
	}
}

func (t tally) deltas(matchID string, inn domain.Innings, batterID, bowlerID string) (batter, bowler domain.PlayerStats) {
	batter = domain.PlayerStats{MatchID: matchID, PlayerID: batterID, TeamID: inn.BattingTeamID, Runs: t.batRuns}
	switch t.batRuns {
	case 4:
		batter.Fours = 1
	case 6:
		batter.Sixes = 1
	}
	if t.faced {
		batter.BallsFaced = 1
	}

	bowler = domain.PlayerStats{MatchID: matchID, PlayerID: bowlerID, TeamID: inn.BowlingTeamID, RunsConceded: t.teamRuns}
	if t.legal {
		bowler.BallsBowled = 1
	}
	// every standing dismissal is credited, run-outs included
	if t.wicket {
		bowler.Wickets = 1
	}
	return batter, bowler
}

func howOut(kind domain.DeliveryKind, dismissalType string, runOut bool) string {
	if runOut {
		return "runout"
	}
	if dismissalType != "" {
		return dismissalType
	}
	return string(kind)
}

func rotatesOnRuns(kind domain.DeliveryKind, runs int) bool {
	if runs%2 == 0 {
		return false
	}
	switch kind {
	case domain.KindNormal, domain.KindBye, domain.KindLegBye, domain.KindNoBall:
		return true
	}
	return false
}

func validateDelivery(d *Delivery) error {
	if d.Kind == "" {
		d.Kind = domain.KindNormal
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("unknown delivery kind %q: %w", d.Kind, domain.ErrInvalidInput)
	}
	if d.Runs < 0 {
		return fmt.Errorf("runs must not be negative: %w", domain.ErrInvalidInput)
	}
	if d.OutEnd != "" && !d.OutEnd.Valid() {
		return fmt.Errorf("unknown end %q: %w", d.OutEnd, domain.ErrInvalidInput)
	}
	if d.Kind == domain.KindWide {
		d.Runs = 0
	}
	return nil
}

// ApplyBall validates and applies one delivery to the current innings.
func (e *Engine) ApplyBall(s Snapshot, d Delivery) (*BallOutcome, error) {
	if err := s.requireLive(); err != nil {
		return nil, err
	}
	switch s.State.Pending.Kind {
	case domain.PendingOpeners:
		return nil, fmt.Errorf("pick second-innings openers first: %w", domain.ErrInvalidState)
	case domain.PendingBatter:
		return nil, fmt.Errorf("new batter required at %s end: %w", s.State.Pending.End, domain.ErrInvalidState)
	}
	if !s.State.Striker.Occupied() {
		return nil, fmt.Errorf("striker missing: %w", domain.ErrInvalidState)
	}
	if !s.State.Bowler.Occupied() {
		return nil, fmt.Errorf("bowler missing: %w", domain.ErrInvalidState)
	}
	if s.Innings.LegalBalls >= BallLimit(s.Match.MaxOvers) {
		return nil, fmt.Errorf("innings overs exhausted: %w", domain.ErrInvalidState)
	}
	if err := validateDelivery(&d); err != nil {
		return nil, err
	}

	now := e.Now()
	st := s.State
	inn := s.Innings
	t := score(d.Kind, d.Runs, d.Wicket, d.DismissalType, st.NextBallFreeHit)

	out := &BallOutcome{
		Event: domain.BallEvent{
			ID:            e.NewEventID(),
			MatchID:       s.Match.ID,
			InningsID:     inn.ID,
			Seq:           s.Deliveries + 1,
			BatterID:      st.Striker.PlayerID,
			BowlerID:      st.Bowler.PlayerID,
			Runs:          d.Runs,
			Wicket:        t.wicket,
			Kind:          d.Kind,
			BallsBefore:   st.Balls,
			DismissalType: d.DismissalType,
			FreeHit:       st.NextBallFreeHit,
			Note:          d.Note,
			CreatedAt:     now,
		},
	}

	t.apply(&inn)
	st.Runs += t.teamRuns
	if t.wicket {
		st.Wickets++
	}
	if t.legal {
		st.Balls++
	}
	out.Batter, out.Bowler = t.deltas(s.Match.ID, inn, st.Striker.PlayerID, st.Bowler.PlayerID)

	if t.wicket {
		end := domain.EndStriker
		if t.runOut && d.OutEnd == domain.EndNonStriker {
			end = domain.EndNonStriker
		}
		seat := st.SeatAt(end)
		out.Dismissal = &Dismissal{
			PlayerID: seat.PlayerID,
			TeamID:   inn.BattingTeamID,
			HowOut:   howOut(d.Kind, d.DismissalType, t.runOut),
			End:      end,
		}
		if t.runOut {
			out.Event.OutEnd = end
		}
		out.Event.DismissedPlayerID = seat.PlayerID
		*seat = domain.Seat{}
		st.Pending = domain.AwaitingBatter(end)
	}

	// the pending end always names the vacant seat, so it travels with every swap
	swap := func() {
		st.SwapEnds()
		if st.Pending.Kind == domain.PendingBatter {
			st.Pending.End = st.Pending.End.Other()
		}
	}
	if rotatesOnRuns(d.Kind, d.Runs) {
		swap()
	}
	if t.legal && st.Balls%BallsPerOver == 0 {
		swap()
		st.Bowler = domain.Seat{}
		out.OverCompleted = st.Balls / BallsPerOver
	}

	st.NextBallFreeHit = d.Kind == domain.KindNoBall
	st.LastEvent = Narrate(d, t.wicket, t.runOut)
	st.UpdatedAt = now

	out.Innings = inn
	out.State = st
	return out, nil
}
