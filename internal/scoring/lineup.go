package scoring

import (
	"fmt"

	"cricket-score/internal/domain"
)

type StartRequest struct {
	BattingTeamID string
	BowlingTeamID string
	StrikerID     string
	NonStrikerID  string
	BowlerID      string // optional
	MaxOvers      int    // 0 keeps the match setting
}

type StartOutcome struct {
	Match domain.Match
	State domain.MatchState
	// Innings is the first innings, nil when an existing state was resumed.
	Innings *domain.Innings
}

// MinSquad is the smallest roster that can bat an innings.
const MinSquad = 2

func findPlayer(squad []domain.Player, id string) (domain.Player, bool) {
	for _, p := range squad {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Player{}, false
}

// Start puts a match live. A match that already has state is resumed as is.
func (e *Engine) Start(m domain.Match, existing *domain.MatchState, squads map[string][]domain.Player, req StartRequest) (*StartOutcome, error) {
	if m.Status == domain.MatchFinished {
		return nil, fmt.Errorf("match %s already finished: %w", m.ID, domain.ErrInvalidState)
	}
	now := e.Now()
	if existing != nil {
		m.Status = domain.MatchLive
		m.UpdatedAt = now
		return &StartOutcome{Match: m, State: *existing}, nil
	}

	switch {
	case req.MaxOvers == 0 && !AllowedOvers[m.MaxOvers]:
		m.MaxOvers = DefaultMaxOvers
	case req.MaxOvers != 0:
		if !AllowedOvers[req.MaxOvers] {
			return nil, fmt.Errorf("max overs must be one of 6, 8, 10 or 20, got %d: %w", req.MaxOvers, domain.ErrInvalidInput)
		}
		m.MaxOvers = req.MaxOvers
	}

	if !m.Has(req.BattingTeamID) || m.Opponent(req.BattingTeamID) != req.BowlingTeamID {
		return nil, fmt.Errorf("batting and bowling teams must be the two sides of the match: %w", domain.ErrInvalidInput)
	}
	batting, bowling := squads[req.BattingTeamID], squads[req.BowlingTeamID]
	if len(batting) < MinSquad || len(bowling) < MinSquad {
		return nil, fmt.Errorf("each team needs at least %d players: %w", MinSquad, domain.ErrInvalidState)
	}

	if req.StrikerID == "" || req.NonStrikerID == "" {
		return nil, fmt.Errorf("both openers are required: %w", domain.ErrInvalidPlayer)
	}
	if req.StrikerID == req.NonStrikerID {
		return nil, fmt.Errorf("striker and non-striker must differ: %w", domain.ErrInvalidPlayer)
	}
	striker, ok := findPlayer(batting, req.StrikerID)
	if !ok {
		return nil, fmt.Errorf("striker %s is not in the batting team: %w", req.StrikerID, domain.ErrInvalidPlayer)
	}
	nonStriker, ok := findPlayer(batting, req.NonStrikerID)
	if !ok {
		return nil, fmt.Errorf("non-striker %s is not in the batting team: %w", req.NonStrikerID, domain.ErrInvalidPlayer)
	}
	var bowler domain.Seat
	if req.BowlerID != "" {
		p, ok := findPlayer(bowling, req.BowlerID)
		if !ok {
			return nil, fmt.Errorf("bowler %s is not in the bowling team: %w", req.BowlerID, domain.ErrInvalidPlayer)
		}
		bowler = domain.SeatFor(p)
	}

	inn := domain.Innings{
		ID:            e.NewID(),
		MatchID:       m.ID,
		Number:        1,
		BattingTeamID: req.BattingTeamID,
		BowlingTeamID: req.BowlingTeamID,
		StartedAt:     now,
	}
	st := domain.MatchState{MatchID: m.ID}
	st.ResetForInnings(inn.ID)
	st.Striker = domain.SeatFor(striker)
	st.NonStriker = domain.SeatFor(nonStriker)
	st.Bowler = bowler
	st.UpdatedAt = now

	m.Status = domain.MatchLive
	m.UpdatedAt = now
	return &StartOutcome{Match: m, State: st, Innings: &inn}, nil
}

// SetBowler assigns (or clears, when bowler is nil) the current bowler.
// bowled is the legal balls that bowler has already sent down this innings.
func (e *Engine) SetBowler(s Snapshot, bowler *domain.Player, bowled int) (domain.MatchState, error) {
	if err := s.requireLive(); err != nil {
		return domain.MatchState{}, err
	}
	st := s.State
	if bowler == nil {
		st.Bowler = domain.Seat{}
		st.UpdatedAt = e.Now()
		return st, nil
	}
	if limit := BowlerBallLimit(s.Match.MaxOvers); bowled >= limit {
		return domain.MatchState{}, fmt.Errorf("%s has bowled the maximum %d overs: %w", bowler.FullName, limit/BallsPerOver, domain.ErrLimitExceeded)
	}
	st.Bowler = domain.SeatFor(*bowler)
	st.UpdatedAt = e.Now()
	return st, nil
}

// ResolveNewBatter fills the seat vacated by the last dismissal. An empty
// end means the end recorded when the wicket fell.
func (e *Engine) ResolveNewBatter(s Snapshot, p domain.Player, end domain.End) (domain.MatchState, error) {
	if err := s.requireLive(); err != nil {
		return domain.MatchState{}, err
	}
	st := s.State
	if st.Pending.Kind != domain.PendingBatter {
		return domain.MatchState{}, fmt.Errorf("no batter is awaited: %w", domain.ErrNotWaiting)
	}
	if end == "" {
		end = st.Pending.End
	}
	if !end.Valid() {
		return domain.MatchState{}, fmt.Errorf("unknown end %q: %w", end, domain.ErrInvalidInput)
	}
	if p.TeamID != s.Innings.BattingTeamID {
		return domain.MatchState{}, fmt.Errorf("%s is not in the batting team: %w", p.FullName, domain.ErrInvalidPlayer)
	}
	if st.AtCrease(p.ID) {
		return domain.MatchState{}, fmt.Errorf("%s is already on the field: %w", p.FullName, domain.ErrInvalidPlayer)
	}
	if s.Out[p.ID] {
		return domain.MatchState{}, fmt.Errorf("%s is already out: %w", p.FullName, domain.ErrInvalidPlayer)
	}
	seat := st.SeatAt(end)
	if seat.Occupied() {
		return domain.MatchState{}, fmt.Errorf("%s end is occupied: %w", end, domain.ErrInvalidState)
	}
	*seat = domain.SeatFor(p)
	st.Pending = domain.Pending{}
	st.UpdatedAt = e.Now()
	return st, nil
}

// ResolveOpeners seats the second-innings openers and, optionally, the bowler.
func (e *Engine) ResolveOpeners(s Snapshot, striker, nonStriker domain.Player, bowler *domain.Player) (domain.MatchState, error) {
	if err := s.requireLive(); err != nil {
		return domain.MatchState{}, err
	}
	st := s.State
	if st.Pending.Kind != domain.PendingOpeners {
		return domain.MatchState{}, fmt.Errorf("openers are not awaited: %w", domain.ErrNotWaiting)
	}
	if striker.ID == nonStriker.ID {
		return domain.MatchState{}, fmt.Errorf("striker and non-striker must differ: %w", domain.ErrInvalidPlayer)
	}
	if striker.TeamID != s.Innings.BattingTeamID || nonStriker.TeamID != s.Innings.BattingTeamID {
		return domain.MatchState{}, fmt.Errorf("openers must be from the batting team: %w", domain.ErrInvalidPlayer)
	}
	if bowler != nil && bowler.TeamID != s.Innings.BowlingTeamID {
		return domain.MatchState{}, fmt.Errorf("bowler must be from the bowling team: %w", domain.ErrInvalidPlayer)
	}

	st.Striker = domain.SeatFor(striker)
	st.NonStriker = domain.SeatFor(nonStriker)
	st.Bowler = domain.Seat{}
	if bowler != nil {
		st.Bowler = domain.SeatFor(*bowler)
	}
	st.Pending = domain.Pending{}
	st.UpdatedAt = e.Now()
	return st, nil
}
