package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cricket-score/internal/db"
	"cricket-score/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

type MatchFilter struct {
	TournamentID string
	GroupID      string
	Status       domain.MatchStatus
}

func (r *MatchRepository) Get(ctx context.Context, id string) (*domain.Match, error) {
	row, err := r.queries.GetMatch(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	m := toDomainMatch(row)
	return &m, nil
}

func (r *MatchRepository) List(ctx context.Context, filter MatchFilter) ([]domain.Match, error) {
	rows, err := r.queries.ListMatches(ctx, db.ListMatchesParams{
		TournamentID: filter.TournamentID,
		GroupID:      filter.GroupID,
		Status:       string(filter.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	matches := make([]domain.Match, len(rows))
	for i, row := range rows {
		matches[i] = toDomainMatch(row)
	}
	return matches, nil
}

// GetState returns nil without error when the match has never been started.
func (r *MatchRepository) GetState(ctx context.Context, matchID string) (*domain.MatchState, error) {
	row, err := r.queries.GetMatchState(ctx, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state for match %s: %w", matchID, err)
	}
	st := toDomainState(row)
	return &st, nil
}

func (r *MatchRepository) ListInnings(ctx context.Context, matchID string) ([]domain.Innings, error) {
	rows, err := r.queries.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list innings for match %s: %w", matchID, err)
	}
	innings := make([]domain.Innings, len(rows))
	for i, row := range rows {
		innings[i] = toDomainInnings(row)
	}
	return innings, nil
}

func (r *MatchRepository) CountDeliveries(ctx context.Context, inningsID string) (int, error) {
	n, err := r.queries.CountBallEventsByInnings(ctx, inningsID)
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries for innings %s: %w", inningsID, err)
	}
	return int(n), nil
}

// BowlerLegalBalls counts the legal balls a bowler has sent down in one innings.
func (r *MatchRepository) BowlerLegalBalls(ctx context.Context, inningsID, bowlerID string) (int, error) {
	n, err := r.queries.CountLegalBallsByBowler(ctx, db.CountLegalBallsByBowlerParams{
		InningsID: inningsID,
		BowlerID:  bowlerID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count balls for bowler %s: %w", bowlerID, err)
	}
	return int(n), nil
}

// ListBallEvents returns the match log ordered by innings then sequence.
func (r *MatchRepository) ListBallEvents(ctx context.Context, matchID string) ([]domain.BallEvent, error) {
	rows, err := r.queries.ListBallEventsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ball events for match %s: %w", matchID, err)
	}
	events := make([]domain.BallEvent, len(rows))
	for i, row := range rows {
		events[i] = toDomainBall(row)
	}
	return events, nil
}

// GetResult returns nil without error when no result has been recorded.
func (r *MatchRepository) GetResult(ctx context.Context, matchID string) (*domain.MatchResult, error) {
	row, err := r.queries.GetMatchResult(ctx, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result for match %s: %w", matchID, err)
	}
	res := toDomainResult(row)
	return &res, nil
}

// Changeset is every write one scoring command produces. Commit applies it
// atomically; nil and empty fields are skipped.
type Changeset struct {
	Match      *domain.Match
	NewInnings []domain.Innings
	Innings    []domain.Innings
	State      *domain.MatchState
	Event      *domain.BallEvent
	// ResetStats drops the match's stat rows before Stats are added.
	ResetStats bool
	Stats      []domain.PlayerStats
	Result     *domain.MatchResult
}

func (r *MatchRepository) Commit(ctx context.Context, cs Changeset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if m := cs.Match; m != nil {
		if err := qtx.UpdateMatchStatus(ctx, db.UpdateMatchStatusParams{
			Status:    string(m.Status),
			MaxOvers:  int64(m.MaxOvers),
			UpdatedAt: m.UpdatedAt,
			ID:        m.ID,
		}); err != nil {
			return fmt.Errorf("failed to update match %s: %w", m.ID, err)
		}
	}

	for _, inn := range cs.NewInnings {
		if err := qtx.InsertInnings(ctx, fromDomainInnings(inn)); err != nil {
			return fmt.Errorf("failed to insert innings %s: %w", inn.ID, err)
		}
	}

	for _, inn := range cs.Innings {
		if err := qtx.UpdateInningsTally(ctx, db.UpdateInningsTallyParams{
			Runs:       int64(inn.Runs),
			Wickets:    int64(inn.Wickets),
			LegalBalls: int64(inn.LegalBalls),
			Extras:     int64(inn.Extras),
			EndedAt:    inn.EndedAt,
			ID:         inn.ID,
		}); err != nil {
			return fmt.Errorf("failed to update innings %s: %w", inn.ID, err)
		}
	}

	if cs.State != nil {
		if err := qtx.UpsertMatchState(ctx, fromDomainState(*cs.State)); err != nil {
			return fmt.Errorf("failed to upsert state for match %s: %w", cs.State.MatchID, err)
		}
	}

	if cs.Event != nil {
		if err := qtx.InsertBallEvent(ctx, fromDomainBall(*cs.Event)); err != nil {
			return fmt.Errorf("failed to insert ball event %s: %w", cs.Event.ID, err)
		}
	}

	if cs.ResetStats && cs.State != nil {
		if err := qtx.DeletePlayerStatsByMatch(ctx, cs.State.MatchID); err != nil {
			return fmt.Errorf("failed to reset stats for match %s: %w", cs.State.MatchID, err)
		}
	}
	for _, s := range cs.Stats {
		if s.PlayerID == "" {
			continue
		}
		if err := qtx.AddPlayerStats(ctx, fromDomainStats(s)); err != nil {
			return fmt.Errorf("failed to add stats for player %s: %w", s.PlayerID, err)
		}
	}

	if cs.Result != nil {
		if err := qtx.UpsertMatchResult(ctx, fromDomainResult(*cs.Result)); err != nil {
			return fmt.Errorf("failed to upsert result for match %s: %w", cs.Result.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().
		Bool("match", cs.Match != nil).
		Int("new_innings", len(cs.NewInnings)).
		Int("innings", len(cs.Innings)).
		Bool("event", cs.Event != nil).
		Int("stats", len(cs.Stats)).
		Bool("result", cs.Result != nil).
		Msg("changeset committed")
	return nil
}
