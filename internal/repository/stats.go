package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cricket-score/internal/db"
	"cricket-score/internal/domain"

	"github.com/rs/zerolog"
)

// StatsRepository serves the read side: per-match stat rows and the
// tournament-wide rows standings are computed from.
type StatsRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStatsRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *StatsRepository) ListByMatch(ctx context.Context, matchID string) ([]domain.PlayerStats, error) {
	rows, err := r.queries.ListPlayerStatsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats for match %s: %w", matchID, err)
	}
	return toDomainStatsList(rows), nil
}

// ListFiltered returns stat rows across matches; empty ids widen the filter.
func (r *StatsRepository) ListFiltered(ctx context.Context, tournamentID, groupID string) ([]domain.PlayerStats, error) {
	rows, err := r.queries.ListPlayerStatsFiltered(ctx, db.ListPlayerStatsFilteredParams{
		TournamentID: tournamentID,
		GroupID:      groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list filtered stats: %w", err)
	}
	return toDomainStatsList(rows), nil
}

// OutPlayers returns the ids of every player recorded as dismissed in the match.
func (r *StatsRepository) OutPlayers(ctx context.Context, matchID string) (map[string]bool, error) {
	stats, err := r.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, s := range stats {
		if s.IsOut {
			out[s.PlayerID] = true
		}
	}
	return out, nil
}

func (r *StatsRepository) ListInningsByTournament(ctx context.Context, tournamentID string) ([]domain.Innings, error) {
	rows, err := r.queries.ListInningsByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list innings for tournament %s: %w", tournamentID, err)
	}
	innings := make([]domain.Innings, len(rows))
	for i, row := range rows {
		innings[i] = toDomainInnings(row)
	}
	return innings, nil
}

func (r *StatsRepository) ListResultsByTournament(ctx context.Context, tournamentID string) ([]domain.MatchResult, error) {
	rows, err := r.queries.ListMatchResultsByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for tournament %s: %w", tournamentID, err)
	}
	results := make([]domain.MatchResult, len(rows))
	for i, row := range rows {
		results[i] = toDomainResult(row)
	}
	return results, nil
}

func toDomainStatsList(rows []db.PlayerStat) []domain.PlayerStats {
	stats := make([]domain.PlayerStats, len(rows))
	for i, row := range rows {
		stats[i] = toDomainStats(row)
	}
	return stats
}
