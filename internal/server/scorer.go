package server

import (
	"context"
	"fmt"

	"cricket-score/internal/domain"
	"cricket-score/internal/repository"
	"cricket-score/internal/scoring"
	"cricket-score/internal/service"
)

// ScorerServer adapts the services to the Scorer procedures.
type ScorerServer struct {
	matchSvc     *service.MatchService
	standingsSvc *service.StandingsService
	rosterSvc    *service.RosterService
}

func NewScorerServer(matchSvc *service.MatchService, standingsSvc *service.StandingsService, rosterSvc *service.RosterService) *ScorerServer {
	return &ScorerServer{matchSvc: matchSvc, standingsSvc: standingsSvc, rosterSvc: rosterSvc}
}

func requireMatch(id string) error {
	if id == "" {
		return fmt.Errorf("matchId is required: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *ScorerServer) StartMatch(ctx context.Context, req *StartMatchRequest) (*service.MatchView, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.Start(ctx, req.MatchID, scoring.StartRequest{
		BattingTeamID: req.BattingTeamID,
		BowlingTeamID: req.BowlingTeamID,
		StrikerID:     req.StrikerID,
		NonStrikerID:  req.NonStrikerID,
		BowlerID:      req.BowlerID,
		MaxOvers:      req.MaxOvers,
	})
}

func (s *ScorerServer) SetBowler(ctx context.Context, req *SetBowlerRequest) (*service.MatchView, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.SetBowler(ctx, req.MatchID, req.BowlerID)
}

func (s *ScorerServer) ResolveNewBatter(ctx context.Context, req *ResolveNewBatterRequest) (*service.MatchView, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	if req.PlayerID == "" {
		return nil, fmt.Errorf("playerId is required: %w", domain.ErrInvalidInput)
	}
	return s.matchSvc.ResolveNewBatter(ctx, req.MatchID, req.PlayerID, domain.End(req.End))
}

func (s *ScorerServer) ResolveOpeners(ctx context.Context, req *ResolveOpenersRequest) (*service.MatchView, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.ResolveOpeners(ctx, req.MatchID, req.StrikerID, req.NonStrikerID, req.BowlerID)
}

func (s *ScorerServer) ApplyBall(ctx context.Context, req *ApplyBallRequest) (*service.BallResult, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.ApplyBall(ctx, req.MatchID, scoring.Delivery{
		Runs:          req.Runs,
		Wicket:        req.Wicket,
		Kind:          domain.DeliveryKind(req.Kind),
		DismissalType: req.DismissalType,
		OutEnd:        domain.End(req.OutEnd),
		Note:          req.Note,
	})
}

func (s *ScorerServer) GetMatch(ctx context.Context, req *MatchRequest) (*service.MatchView, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.GetMatch(ctx, req.MatchID)
}

func (s *ScorerServer) GetChaseInfo(ctx context.Context, req *MatchRequest) (*service.ChaseInfo, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.ChaseInfo(ctx, req.MatchID)
}

func (s *ScorerServer) GetScorecard(ctx context.Context, req *MatchRequest) (*ScorecardResponse, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	cards, err := s.matchSvc.Scorecard(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	return &ScorecardResponse{Teams: cards}, nil
}

func (s *ScorerServer) GetInnings(ctx context.Context, req *MatchRequest) (*InningsResponse, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	innings, err := s.matchSvc.Innings(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	return &InningsResponse{Innings: innings}, nil
}

func (s *ScorerServer) GetTotals(ctx context.Context, req *MatchRequest) (*TotalsResponse, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	totals, err := s.matchSvc.Totals(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	return &TotalsResponse{Totals: totals}, nil
}

func (s *ScorerServer) GetNewBatterOptions(ctx context.Context, req *MatchRequest) (*service.NewBatterOptions, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.NewBatterOptions(ctx, req.MatchID)
}

func (s *ScorerServer) GetOpenersOptions(ctx context.Context, req *MatchRequest) (*service.OpenersOptions, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.OpenersOptions(ctx, req.MatchID)
}

func (s *ScorerServer) RebuildMatch(ctx context.Context, req *MatchRequest) (*service.MatchView, error) {
	if err := requireMatch(req.MatchID); err != nil {
		return nil, err
	}
	return s.matchSvc.RebuildMatch(ctx, req.MatchID)
}

func (s *ScorerServer) GetStandings(ctx context.Context, req *GetStandingsRequest) (*StandingsResponse, error) {
	if req.TournamentID == "" {
		return nil, fmt.Errorf("tournamentId is required: %w", domain.ErrInvalidInput)
	}
	groups, err := s.standingsSvc.Standings(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	return &StandingsResponse{Groups: groups}, nil
}

func (s *ScorerServer) GetPlayerLeaders(ctx context.Context, req *GetPlayerLeadersRequest) (*PlayerLeadersResponse, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative: %w", domain.ErrInvalidInput)
	}
	leaders, err := s.standingsSvc.Leaders(ctx, req.TournamentID, req.GroupID, req.Limit)
	if err != nil {
		return nil, err
	}
	return &PlayerLeadersResponse{Players: leaders}, nil
}

func (s *ScorerServer) ListMatches(ctx context.Context, req *ListMatchesRequest) (*ListMatchesResponse, error) {
	status := domain.MatchStatus(req.Status)
	switch status {
	case "", domain.MatchScheduled, domain.MatchLive, domain.MatchFinished:
	default:
		return nil, fmt.Errorf("unknown status %q: %w", req.Status, domain.ErrInvalidInput)
	}
	matches, err := s.matchSvc.ListMatches(ctx, repository.MatchFilter{
		TournamentID: req.TournamentID,
		GroupID:      req.GroupID,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}
	return &ListMatchesResponse{Matches: matches}, nil
}

func (s *ScorerServer) ListTeams(ctx context.Context, _ *ListTeamsRequest) (*ListTeamsResponse, error) {
	teams, err := s.rosterSvc.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	return &ListTeamsResponse{Teams: teams}, nil
}

func (s *ScorerServer) ListPlayers(ctx context.Context, req *ListPlayersRequest) (*ListPlayersResponse, error) {
	players, err := s.rosterSvc.ListPlayers(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	return &ListPlayersResponse{Players: players}, nil
}

func (s *ScorerServer) ListTournaments(ctx context.Context, _ *ListTournamentsRequest) (*ListTournamentsResponse, error) {
	tournaments, err := s.rosterSvc.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	return &ListTournamentsResponse{Tournaments: tournaments}, nil
}

func (s *ScorerServer) ListGroups(ctx context.Context, req *ListGroupsRequest) (*ListGroupsResponse, error) {
	if req.TournamentID == "" {
		return nil, fmt.Errorf("tournamentId is required: %w", domain.ErrInvalidInput)
	}
	groups, err := s.rosterSvc.ListGroups(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	return &ListGroupsResponse{Groups: groups}, nil
}
