package scoring

import (
	"fmt"
	"sort"

	"cricket-score/internal/domain"
)

// Projection is every derived value that can be recomputed from the ball log.
type Projection struct {
	Innings []domain.Innings
	Stats   map[string]*domain.PlayerStats // by player id

	// live counters of the last innings
	Runs            int
	Wickets         int
	Balls           int
	NextBallFreeHit bool
}

// Rebuild recomputes innings tallies, player stats and the live counters from
// the innings headers and their ball events. Stored wicket flags are taken as
// already free-hit adjusted.
func Rebuild(matchID string, innings []domain.Innings, events []domain.BallEvent) (*Projection, error) {
	headers := make([]domain.Innings, len(innings))
	copy(headers, innings)
	sort.SliceStable(headers, func(i, j int) bool { return headers[i].Number < headers[j].Number })

	byInnings := make(map[string][]domain.BallEvent, len(headers))
	for i := range headers {
		byInnings[headers[i].ID] = nil
	}
	for _, ev := range events {
		if _, ok := byInnings[ev.InningsID]; !ok {
			return nil, fmt.Errorf("ball %s belongs to unknown innings %s: %w", ev.ID, ev.InningsID, domain.ErrInvalidState)
		}
		byInnings[ev.InningsID] = append(byInnings[ev.InningsID], ev)
	}

	p := &Projection{Stats: make(map[string]*domain.PlayerStats)}
	stat := func(delta domain.PlayerStats) {
		cur, ok := p.Stats[delta.PlayerID]
		if !ok {
			cur = &domain.PlayerStats{MatchID: matchID, PlayerID: delta.PlayerID}
			p.Stats[delta.PlayerID] = cur
		}
		cur.Add(delta)
	}

	for _, h := range headers {
		inn := h
		inn.Runs, inn.Wickets, inn.LegalBalls, inn.Extras = 0, 0, 0, 0

		log := byInnings[h.ID]
		sort.SliceStable(log, func(i, j int) bool { return log[i].Seq < log[j].Seq })

		freeHit := false
		for _, ev := range log {
			if ev.BallsBefore != inn.LegalBalls {
				return nil, fmt.Errorf("ball %s (seq %d) expected %d legal balls before, log has %d: %w",
					ev.ID, ev.Seq, ev.BallsBefore, inn.LegalBalls, domain.ErrInvalidState)
			}
			t := score(ev.Kind, ev.Runs, ev.Wicket, ev.DismissalType, false)
			t.apply(&inn)

			batter, bowler := t.deltas(matchID, inn, ev.BatterID, ev.BowlerID)
			stat(batter)
			stat(bowler)
			if t.wicket && ev.DismissedPlayerID != "" {
				stat(domain.PlayerStats{
					PlayerID: ev.DismissedPlayerID,
					TeamID:   inn.BattingTeamID,
					IsOut:    true,
					HowOut:   howOut(ev.Kind, ev.DismissalType, t.runOut),
				})
			}
			freeHit = ev.Kind == domain.KindNoBall
		}

		p.Innings = append(p.Innings, inn)
		p.Runs, p.Wickets, p.Balls = inn.Runs, inn.Wickets, inn.LegalBalls
		p.NextBallFreeHit = freeHit
	}
	return p, nil
}
