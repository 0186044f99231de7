package scoring

import (
	"fmt"

	"cricket-score/internal/domain"
)

type TransitionKind int

const (
	NoTransition TransitionKind = iota
	InningsBreak
	MatchOver
)

// Transition is what Advance decided. Match and State are always the values
// to persist, changed or not.
type Transition struct {
	Kind  TransitionKind
	Match domain.Match
	State domain.MatchState

	// Ended is the innings that just closed.
	Ended *domain.Innings
	// Next is the second innings, set for InningsBreak.
	Next   *domain.Innings
	Target int

	Result *domain.MatchResult
	// Totals maps team id to its total runs, set for MatchOver.
	Totals map[string]int
}

// Advance checks the end-of-innings and end-of-match conditions against s.
func (e *Engine) Advance(s Snapshot) Transition {
	tr := Transition{Kind: NoTransition, Match: s.Match, State: s.State}
	if s.Match.Status != domain.MatchLive {
		return tr
	}

	if target := s.Target(); target > 0 && s.Innings.Runs >= target {
		return e.finish(s, s.Innings.BattingTeamID)
	}

	noBattersLeft := s.State.Pending.Kind == domain.PendingBatter && len(EligibleBatters(s)) == 0
	ended := noBattersLeft ||
		s.Innings.LegalBalls >= BallLimit(s.Match.MaxOvers) ||
		s.Innings.Wickets >= AllOutThreshold(s)
	if !ended {
		return tr
	}

	if s.InningsCount <= 1 {
		return e.inningsBreak(s)
	}
	return e.finish(s, "")
}

func (e *Engine) inningsBreak(s Snapshot) Transition {
	now := e.Now()
	ended := s.Innings
	ended.EndedAt = &now

	next := domain.Innings{
		ID:            e.NewID(),
		MatchID:       s.Match.ID,
		Number:        ended.Number + 1,
		BattingTeamID: ended.BowlingTeamID,
		BowlingTeamID: ended.BattingTeamID,
		StartedAt:     now,
	}
	target := ended.Runs + 1

	st := s.State
	st.ResetForInnings(next.ID)
	st.Pending = domain.AwaitingOpeners()
	st.Target = target
	st.LastEvent = fmt.Sprintf("Innings complete. Target %d. Waiting for second-innings openers.", target)
	st.UpdatedAt = now

	return Transition{
		Kind:   InningsBreak,
		Match:  s.Match,
		State:  st,
		Ended:  &ended,
		Next:   &next,
		Target: target,
	}
}

// finish closes the match. An empty winner means "decide on totals".
func (e *Engine) finish(s Snapshot, winner string) Transition {
	now := e.Now()
	ended := s.Innings
	ended.EndedAt = &now

	totals := map[string]int{s.Match.TeamAID: 0, s.Match.TeamBID: 0}
	if s.secondInnings() {
		totals[s.First.BattingTeamID] += s.First.Runs
	}
	totals[ended.BattingTeamID] += ended.Runs

	result := domain.MatchResult{MatchID: s.Match.ID, CreatedAt: now}
	if winner == "" {
		a, b := totals[s.Match.TeamAID], totals[s.Match.TeamBID]
		switch {
		case a > b:
			winner = s.Match.TeamAID
		case b > a:
			winner = s.Match.TeamBID
		}
	}
	if winner == "" {
		result.IsTie = true
	} else {
		result.WinnerTeamID = winner
		result.LoserTeamID = s.Match.Opponent(winner)
	}

	m := s.Match
	m.Status = domain.MatchFinished
	m.UpdatedAt = now

	st := s.State
	st.Pending = domain.Pending{}
	st.UpdatedAt = now

	return Transition{
		Kind:   MatchOver,
		Match:  m,
		State:  st,
		Ended:  &ended,
		Result: &result,
		Totals: totals,
	}
}
