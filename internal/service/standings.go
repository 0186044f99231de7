package service

import (
	"context"

	"cricket-score/internal/constants"
	"cricket-score/internal/domain"
	"cricket-score/internal/repository"
	"cricket-score/internal/standings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StandingsService computes tables and leaderboards on demand from committed rows.
type StandingsService struct {
	roster  *repository.RosterRepository
	matches *repository.MatchRepository
	stats   *repository.StatsRepository
	logger  zerolog.Logger
}

func NewStandingsService(roster *repository.RosterRepository, matches *repository.MatchRepository, stats *repository.StatsRepository, logger zerolog.Logger) *StandingsService {
	return &StandingsService{roster: roster, matches: matches, stats: stats, logger: logger}
}

func (s *StandingsService) Standings(ctx context.Context, tournamentID string) ([]standings.GroupTable, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var (
		in      standings.Input
		matches []domain.Match
		innings []domain.Innings
		results []domain.MatchResult
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Groups, err = s.roster.ListGroups(gCtx, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		in.GroupTeams, err = s.roster.ListGroupTeams(gCtx, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		in.Teams, err = s.roster.ListTeams(gCtx)
		return err
	})
	g.Go(func() (err error) {
		matches, err = s.matches.List(gCtx, repository.MatchFilter{TournamentID: tournamentID})
		return err
	})
	g.Go(func() (err error) {
		innings, err = s.stats.ListInningsByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		results, err = s.stats.ListResultsByTournament(gCtx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID).Msg("failed to load standings input")
		return nil, err
	}

	byMatch := make(map[string][]domain.Innings, len(matches))
	for _, inn := range innings {
		byMatch[inn.MatchID] = append(byMatch[inn.MatchID], inn)
	}
	resultOf := make(map[string]*domain.MatchResult, len(results))
	for i := range results {
		resultOf[results[i].MatchID] = &results[i]
	}
	in.Matches = make([]standings.MatchRecord, len(matches))
	for i, m := range matches {
		in.Matches[i] = standings.MatchRecord{
			Match:   m,
			Innings: byMatch[m.ID],
			Result:  resultOf[m.ID],
		}
	}

	tables := standings.Compute(in)
	s.logger.Debug().
		Str("tournament_id", tournamentID).
		Int("groups", len(tables)).
		Int("matches", len(matches)).
		Msg("standings computed")
	return tables, nil
}

// Leaders ranks players over the filtered matches. A non-positive limit
// falls back to the default.
func (s *StandingsService) Leaders(ctx context.Context, tournamentID, groupID string, limit int) ([]standings.Leader, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var (
		stats   []domain.PlayerStats
		players []domain.Player
		teams   []domain.Team
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.stats.ListFiltered(gCtx, tournamentID, groupID)
		return err
	})
	g.Go(func() (err error) {
		players, err = s.roster.ListPlayers(gCtx, "")
		return err
	})
	g.Go(func() (err error) {
		teams, err = s.roster.ListTeams(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	playerByID := make(map[string]domain.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}
	teamByID := make(map[string]domain.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}
	if limit <= 0 {
		limit = standings.DefaultLeadersLimit
	}
	return standings.Leaders(stats, playerByID, teamByID, limit), nil
}
