package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cricket-score/internal/db"
	"cricket-score/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type RosterRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewRosterRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *RosterRepository {
	return &RosterRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *RosterRepository) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.queries.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	teams := make([]domain.Team, len(rows))
	for i, row := range rows {
		teams[i] = toDomainTeam(row)
	}
	return teams, nil
}

func (r *RosterRepository) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	row, err := r.queries.GetTeam(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	t := toDomainTeam(row)
	return &t, nil
}

// ListPlayers lists one team's squad, or every player when teamID is empty.
func (r *RosterRepository) ListPlayers(ctx context.Context, teamID string) ([]domain.Player, error) {
	rows, err := r.queries.ListPlayers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	players := make([]domain.Player, len(rows))
	for i, row := range rows {
		players[i] = toDomainPlayer(row)
	}
	return players, nil
}

func (r *RosterRepository) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	row, err := r.queries.GetPlayer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	p := toDomainPlayer(row)
	return &p, nil
}

func (r *RosterRepository) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	rows, err := r.queries.ListTournaments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	out := make([]domain.Tournament, len(rows))
	for i, row := range rows {
		out[i] = domain.Tournament{
			ID:        row.ID,
			Name:      row.Name,
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
			CreatedAt: row.CreatedAt,
		}
	}
	return out, nil
}

func (r *RosterRepository) ListGroups(ctx context.Context, tournamentID string) ([]domain.Group, error) {
	rows, err := r.queries.ListGroupsByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for tournament %s: %w", tournamentID, err)
	}
	out := make([]domain.Group, len(rows))
	for i, row := range rows {
		out[i] = domain.Group{ID: row.ID, TournamentID: row.TournamentID, Name: row.Name}
	}
	return out, nil
}

func (r *RosterRepository) ListGroupTeams(ctx context.Context, tournamentID string) ([]domain.GroupTeam, error) {
	rows, err := r.queries.ListGroupTeamsByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group teams for tournament %s: %w", tournamentID, err)
	}
	out := make([]domain.GroupTeam, len(rows))
	for i, row := range rows {
		out[i] = domain.GroupTeam{GroupID: row.GroupID, TeamID: row.TeamID}
	}
	return out, nil
}

// ImportBatch is a roster and fixture list keyed by names. Teams, groups and
// matches referenced by name must appear in the same batch or already exist.
type ImportBatch struct {
	Tournament *domain.Tournament
	Teams      []domain.Team
	Players    []ImportPlayer
	Groups     []string
	GroupTeams []ImportGroupTeam
	Matches    []ImportMatch
}

type ImportPlayer struct {
	TeamName string
	Player   domain.Player
}

type ImportGroupTeam struct {
	GroupName string
	TeamName  string
}

type ImportMatch struct {
	Title     string
	TeamA     string
	TeamB     string
	GroupName string
	MaxOvers  int
}

type ImportSummary struct {
	TournamentID string `json:"tournamentId,omitempty"`
	Teams        int    `json:"teams"`
	Players      int    `json:"players"`
	Groups       int    `json:"groups"`
	Matches      int    `json:"matches"`
}

// Import upserts the whole batch in one transaction. Re-importing the same
// batch is a no-op apart from refreshed cosmetic columns.
func (r *RosterRepository) Import(ctx context.Context, batch ImportBatch) (*ImportSummary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()
	summary := &ImportSummary{}

	if t := batch.Tournament; t != nil {
		id, err := qtx.UpsertTournament(ctx, db.UpsertTournamentParams{
			ID:        uuid.New().String(),
			Name:      t.Name,
			StartDate: t.StartDate,
			EndDate:   t.EndDate,
			CreatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upsert tournament %q: %w", t.Name, err)
		}
		summary.TournamentID = id
	}

	teamIDs := make(map[string]string, len(batch.Teams))
	for _, t := range batch.Teams {
		id, err := qtx.UpsertTeam(ctx, db.UpsertTeamParams{
			ID:        uuid.New().String(),
			Name:      t.Name,
			ShortName: t.ShortName,
			CreatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upsert team %q: %w", t.Name, err)
		}
		teamIDs[t.Name] = id
		summary.Teams++
	}

	resolveTeam := func(name string) (string, error) {
		if id, ok := teamIDs[name]; ok {
			return id, nil
		}
		row, err := qtx.GetTeamByName(ctx, name)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("team %q: %w", name, domain.ErrNotFound)
		}
		if err != nil {
			return "", fmt.Errorf("failed to look up team %q: %w", name, err)
		}
		teamIDs[name] = row.ID
		return row.ID, nil
	}

	for _, ip := range batch.Players {
		teamID, err := resolveTeam(ip.TeamName)
		if err != nil {
			return nil, err
		}
		p := ip.Player
		if _, err := qtx.UpsertPlayer(ctx, db.UpsertPlayerParams{
			ID:           uuid.New().String(),
			TeamID:       teamID,
			FullName:     p.FullName,
			Role:         p.Role,
			BattingStyle: p.BattingStyle,
			BowlingStyle: p.BowlingStyle,
			CreatedAt:    now,
		}); err != nil {
			return nil, fmt.Errorf("failed to upsert player %q: %w", p.FullName, err)
		}
		summary.Players++
	}

	groupIDs := make(map[string]string, len(batch.Groups))
	if summary.TournamentID != "" {
		for _, name := range batch.Groups {
			id, err := qtx.UpsertGroup(ctx, db.UpsertGroupParams{
				ID:           uuid.New().String(),
				TournamentID: summary.TournamentID,
				Name:         name,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to upsert group %q: %w", name, err)
			}
			groupIDs[name] = id
			summary.Groups++
		}
	} else if len(batch.Groups) > 0 {
		r.logger.Warn().
			Int("groups", len(batch.Groups)).
			Msg("skipping groups in import without a tournament")
	}

	for _, gt := range batch.GroupTeams {
		groupID, ok := groupIDs[gt.GroupName]
		if !ok {
			continue
		}
		teamID, err := resolveTeam(gt.TeamName)
		if err != nil {
			return nil, err
		}
		if err := qtx.AddGroupTeam(ctx, db.GroupTeam{GroupID: groupID, TeamID: teamID}); err != nil {
			return nil, fmt.Errorf("failed to add team %q to group %q: %w", gt.TeamName, gt.GroupName, err)
		}
	}

	for _, im := range batch.Matches {
		teamA, err := resolveTeam(im.TeamA)
		if err != nil {
			return nil, err
		}
		teamB, err := resolveTeam(im.TeamB)
		if err != nil {
			return nil, err
		}
		if teamA == teamB {
			return nil, fmt.Errorf("match %q has the same team on both sides: %w", im.Title, domain.ErrInvalidInput)
		}
		var groupID *string
		if id, ok := groupIDs[im.GroupName]; ok {
			groupID = &id
		}
		if _, err := qtx.UpsertMatchByTitle(ctx, db.UpsertMatchParams{
			ID:           uuid.New().String(),
			Title:        im.Title,
			TeamAID:      teamA,
			TeamBID:      teamB,
			MaxOvers:     int64(im.MaxOvers),
			Status:       string(domain.MatchScheduled),
			TournamentID: strPtr(summary.TournamentID),
			GroupID:      groupID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return nil, fmt.Errorf("failed to upsert match %q: %w", im.Title, err)
		}
		summary.Matches++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info().
		Str("tournament_id", summary.TournamentID).
		Int("teams", summary.Teams).
		Int("players", summary.Players).
		Int("groups", summary.Groups).
		Int("matches", summary.Matches).
		Msg("roster imported")
	return summary, nil
}
