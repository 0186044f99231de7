package service

import (
	"context"
	"fmt"
	"math"

	"cricket-score/internal/constants"
	"cricket-score/internal/domain"
	"cricket-score/internal/repository"
	"cricket-score/internal/scoring"
)

type ChaseInfo struct {
	Active          bool    `json:"active"`
	Target          int     `json:"target"`
	Runs            int     `json:"runs"`
	Need            int     `json:"need"`
	BallsLeft       int     `json:"ballsLeft"`
	RequiredRunRate float64 `json:"requiredRunRate"`
	BattingTeamID   string  `json:"battingTeamId,omitempty"`
	BowlingTeamID   string  `json:"bowlingTeamId,omitempty"`
}

type BattingRow struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Runs     int    `json:"runs"`
	Balls    int    `json:"balls"`
	Fours    int    `json:"fours"`
	Sixes    int    `json:"sixes"`
	IsOut    bool   `json:"isOut"`
	HowOut   string `json:"howOut"`
}

type BowlingRow struct {
	PlayerID     string `json:"playerId"`
	Name         string `json:"name"`
	Overs        string `json:"overs"`
	RunsConceded int    `json:"runsConceded"`
	Wickets      int    `json:"wickets"`
}

type TeamCard struct {
	Batting []BattingRow `json:"batting"`
	Bowling []BowlingRow `json:"bowling"`
}

type PlayerOption struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

type NewBatterOptions struct {
	Waiting       bool           `json:"waiting"`
	End           string         `json:"end,omitempty"`
	BattingTeamID string         `json:"battingTeamId"`
	Players       []PlayerOption `json:"players"`
}

type OpenersOptions struct {
	Waiting       bool           `json:"waiting"`
	BattingTeamID string         `json:"battingTeamId,omitempty"`
	BowlingTeamID string         `json:"bowlingTeamId,omitempty"`
	Batters       []PlayerOption `json:"batters,omitempty"`
	Bowlers       []PlayerOption `json:"bowlers,omitempty"`
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*MatchView, error) {
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
	view := matchView(*m, st)
	if m.Status == domain.MatchFinished {
		res, err := s.matches.GetResult(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if res != nil {
			rv := resultView(*res)
			view.Result = &rv
		}
	}
	return view, nil
}

// Exists satisfies live.MatchLookup.
func (s *MatchService) Exists(ctx context.Context, matchID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	_, err := s.matches.Get(ctx, matchID)
	return err
}

func (s *MatchService) ListMatches(ctx context.Context, filter repository.MatchFilter) ([]MatchInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	matches, err := s.matches.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]MatchInfo, len(matches))
	for i, m := range matches {
		out[i] = matchInfo(m)
	}
	return out, nil
}

func (s *MatchService) Innings(ctx context.Context, matchID string) ([]InningsView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if _, err := s.matches.Get(ctx, matchID); err != nil {
		return nil, err
	}
	innings, err := s.matches.ListInnings(ctx, matchID)
	if err != nil {
		return nil, err
	}
	out := make([]InningsView, len(innings))
	for i, inn := range innings {
		out[i] = inningsView(inn)
	}
	return out, nil
}

// Totals maps each side of the match to its runs across both innings.
func (s *MatchService) Totals(ctx context.Context, matchID string) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	innings, err := s.matches.ListInnings(ctx, matchID)
	if err != nil {
		return nil, err
	}
	totals := map[string]int{m.TeamAID: 0, m.TeamBID: 0}
	for _, inn := range innings {
		totals[inn.BattingTeamID] += inn.Runs
	}
	return totals, nil
}

func (s *MatchService) ChaseInfo(ctx context.Context, matchID string) (*ChaseInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	innings, err := s.matches.ListInnings(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(innings) < 2 {
		return &ChaseInfo{Active: false}, nil
	}
	first, second := innings[0], innings[1]

	target := first.Runs + 1
	ballsLeft := max(0, scoring.BallLimit(m.MaxOvers)-second.LegalBalls)
	need := max(0, target-second.Runs)
	info := &ChaseInfo{
		Active:        true,
		Target:        target,
		Runs:          second.Runs,
		Need:          need,
		BallsLeft:     ballsLeft,
		BattingTeamID: second.BattingTeamID,
		BowlingTeamID: second.BowlingTeamID,
	}
	if ballsLeft > 0 {
		rrr := float64(need) * scoring.BallsPerOver / float64(ballsLeft)
		info.RequiredRunRate = math.Round(rrr*100) / 100
	}
	return info, nil
}

// Scorecard groups the match's stat rows by team. Seated players without a
// stat row yet get zero rows so the card shows who is in.
func (s *MatchService) Scorecard(ctx context.Context, matchID string) (map[string]*TeamCard, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if _, err := s.matches.Get(ctx, matchID); err != nil {
		return nil, err
	}
	stats, err := s.stats.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	st, err := s.matches.GetState(ctx, matchID)
	if err != nil {
		return nil, err
	}
	players, err := s.roster.ListPlayers(ctx, "")
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	rows := make(map[string]domain.PlayerStats, len(stats))
	order := make([]string, 0, len(stats)+3)
	for _, ps := range stats {
		rows[ps.PlayerID] = ps
		order = append(order, ps.PlayerID)
	}

	atCrease := make(map[string]bool, 2)
	bowling := make(map[string]bool, 1)
	if st != nil {
		for _, seat := range []domain.Seat{st.Striker, st.NonStriker, st.Bowler} {
			if !seat.Occupied() {
				continue
			}
			if _, ok := rows[seat.PlayerID]; !ok {
				p, ok := byID[seat.PlayerID]
				if !ok {
					continue
				}
				rows[seat.PlayerID] = domain.PlayerStats{MatchID: matchID, PlayerID: p.ID, TeamID: p.TeamID}
				order = append(order, seat.PlayerID)
			}
		}
		if st.Striker.Occupied() {
			atCrease[st.Striker.PlayerID] = true
		}
		if st.NonStriker.Occupied() {
			atCrease[st.NonStriker.PlayerID] = true
		}
		if st.Bowler.Occupied() {
			bowling[st.Bowler.PlayerID] = true
		}
	}

	cards := make(map[string]*TeamCard)
	for _, id := range order {
		ps := rows[id]
		p, ok := byID[id]
		if !ok {
			continue
		}
		card, ok := cards[p.TeamID]
		if !ok {
			card = &TeamCard{Batting: []BattingRow{}, Bowling: []BowlingRow{}}
			cards[p.TeamID] = card
		}
		if ps.BallsFaced > 0 || ps.Runs > 0 || ps.IsOut || atCrease[id] {
			card.Batting = append(card.Batting, BattingRow{
				PlayerID: id,
				Name:     p.FullName,
				Runs:     ps.Runs,
				Balls:    ps.BallsFaced,
				Fours:    ps.Fours,
				Sixes:    ps.Sixes,
				IsOut:    ps.IsOut,
				HowOut:   ps.HowOut,
			})
		}
		if ps.BallsBowled > 0 || ps.Wickets > 0 || ps.RunsConceded > 0 || bowling[id] {
			card.Bowling = append(card.Bowling, BowlingRow{
				PlayerID:     id,
				Name:         p.FullName,
				Overs:        Overs(ps.BallsBowled),
				RunsConceded: ps.RunsConceded,
				Wickets:      ps.Wickets,
			})
		}
	}
	return cards, nil
}

func (s *MatchService) NewBatterOptions(ctx context.Context, matchID string) (*NewBatterOptions, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.loadStarted(ctx, matchID)
	if err != nil {
		return nil, err
	}
	opts := &NewBatterOptions{BattingTeamID: snap.Innings.BattingTeamID, Players: []PlayerOption{}}
	if snap.State.Pending.Kind != domain.PendingBatter {
		return opts, nil
	}
	opts.Waiting = true
	opts.End = string(snap.State.Pending.End)
	opts.Players = playerOptions(scoring.EligibleBatters(*snap))
	return opts, nil
}

func (s *MatchService) OpenersOptions(ctx context.Context, matchID string) (*OpenersOptions, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.loadStarted(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if snap.State.Pending.Kind != domain.PendingOpeners {
		return &OpenersOptions{Waiting: false}, nil
	}
	return &OpenersOptions{
		Waiting:       true,
		BattingTeamID: snap.Innings.BattingTeamID,
		BowlingTeamID: snap.Innings.BowlingTeamID,
		Batters:       playerOptions(snap.BattingSquad),
		Bowlers:       playerOptions(snap.BowlingSquad),
	}, nil
}

// notStarted reports a match without a scoring state yet.
func notStarted(matchID string) error {
	return fmt.Errorf("state of match %s: %w", matchID, domain.ErrNotFound)
}

func playerOptions(players []domain.Player) []PlayerOption {
	out := make([]PlayerOption, len(players))
	for i, p := range players {
		out[i] = PlayerOption{ID: p.ID, FullName: p.FullName}
	}
	return out
}
