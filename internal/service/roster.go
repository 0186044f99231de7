package service

import (
	"context"
	"fmt"
	"time"

	"cricket-score/internal/constants"
	"cricket-score/internal/domain"
	"cricket-score/internal/repository"
	"cricket-score/internal/scoring"

	"github.com/rs/zerolog"
)

type TeamView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type PlayerView struct {
	ID           string `json:"id"`
	TeamID       string `json:"teamId"`
	FullName     string `json:"fullName"`
	Role         string `json:"role,omitempty"`
	BattingStyle string `json:"battingStyle,omitempty"`
	BowlingStyle string `json:"bowlingStyle,omitempty"`
}

type TournamentView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type GroupView struct {
	ID           string `json:"id"`
	TournamentID string `json:"tournamentId"`
	Name         string `json:"name"`
}

type RosterService struct {
	roster       *repository.RosterRepository
	defaultOvers int
	logger       zerolog.Logger
}

func NewRosterService(roster *repository.RosterRepository, defaultOvers int, logger zerolog.Logger) *RosterService {
	if !scoring.AllowedOvers[defaultOvers] {
		defaultOvers = scoring.DefaultMaxOvers
	}
	return &RosterService{roster: roster, defaultOvers: defaultOvers, logger: logger}
}

func (s *RosterService) ListTeams(ctx context.Context) ([]TeamView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	teams, err := s.roster.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TeamView, len(teams))
	for i, t := range teams {
		out[i] = TeamView{ID: t.ID, Name: t.Name, ShortName: t.ShortName}
	}
	return out, nil
}

// ListPlayers lists one team's squad, or every player when teamID is empty.
func (s *RosterService) ListPlayers(ctx context.Context, teamID string) ([]PlayerView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if teamID != "" {
		if _, err := s.roster.GetTeam(ctx, teamID); err != nil {
			return nil, err
		}
	}
	players, err := s.roster.ListPlayers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	out := make([]PlayerView, len(players))
	for i, p := range players {
		out[i] = PlayerView{
			ID:           p.ID,
			TeamID:       p.TeamID,
			FullName:     p.FullName,
			Role:         p.Role,
			BattingStyle: p.BattingStyle,
			BowlingStyle: p.BowlingStyle,
		}
	}
	return out, nil
}

func (s *RosterService) ListTournaments(ctx context.Context) ([]TournamentView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	tournaments, err := s.roster.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TournamentView, len(tournaments))
	for i, t := range tournaments {
		out[i] = TournamentView{ID: t.ID, Name: t.Name, StartDate: t.StartDate, EndDate: t.EndDate}
	}
	return out, nil
}

func (s *RosterService) ListGroups(ctx context.Context, tournamentID string) ([]GroupView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	groups, err := s.roster.ListGroups(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	out := make([]GroupView, len(groups))
	for i, g := range groups {
		out[i] = GroupView{ID: g.ID, TournamentID: g.TournamentID, Name: g.Name}
	}
	return out, nil
}

// Import validates and stores a roster batch. Unsupported over counts fall
// back to the default rather than failing the whole file.
func (s *RosterService) Import(ctx context.Context, batch repository.ImportBatch) (*repository.ImportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	for _, t := range batch.Teams {
		if t.Name == "" {
			return nil, fmt.Errorf("team name is required: %w", domain.ErrInvalidInput)
		}
	}
	for _, p := range batch.Players {
		if p.TeamName == "" || p.Player.FullName == "" {
			return nil, fmt.Errorf("player needs a team and a name: %w", domain.ErrInvalidInput)
		}
	}
	for i := range batch.Matches {
		m := &batch.Matches[i]
		if m.Title == "" || m.TeamA == "" || m.TeamB == "" {
			return nil, fmt.Errorf("match needs a title and two teams: %w", domain.ErrInvalidInput)
		}
		if !scoring.AllowedOvers[m.MaxOvers] {
			if m.MaxOvers != 0 {
				s.logger.Warn().Str("match", m.Title).Int("max_overs", m.MaxOvers).Msg("unsupported overs, using default")
			}
			m.MaxOvers = s.defaultOvers
		}
	}
	summary, err := s.roster.Import(ctx, batch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("tournament_id", summary.TournamentID).
		Int("teams", summary.Teams).
		Int("players", summary.Players).
		Int("matches", summary.Matches).
		Msg("roster imported")
	return summary, nil
}
