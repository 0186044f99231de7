package server

import (
	"time"

	"cricket-score/internal/service"
	"cricket-score/internal/standings"
)

type MatchRequest struct {
	MatchID string `json:"matchId"`
}

type StartMatchRequest struct {
	MatchID       string `json:"matchId"`
	BattingTeamID string `json:"battingTeamId"`
	BowlingTeamID string `json:"bowlingTeamId"`
	StrikerID     string `json:"strikerId"`
	NonStrikerID  string `json:"nonStrikerId"`
	BowlerID      string `json:"bowlerId"`
	MaxOvers      int    `json:"maxOvers"`
}

type SetBowlerRequest struct {
	MatchID  string `json:"matchId"`
	BowlerID string `json:"bowlerId"`
}

type ResolveNewBatterRequest struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`
	End      string `json:"end"`
}

type ResolveOpenersRequest struct {
	MatchID      string `json:"matchId"`
	StrikerID    string `json:"strikerId"`
	NonStrikerID string `json:"nonStrikerId"`
	BowlerID     string `json:"bowlerId"`
}

type ApplyBallRequest struct {
	MatchID       string `json:"matchId"`
	Runs          int    `json:"runs"`
	Wicket        bool   `json:"wicket"`
	Kind          string `json:"kind"`
	DismissalType string `json:"dismissalType"`
	OutEnd        string `json:"outEnd"`
	Note          string `json:"note"`
}

type InningsResponse struct {
	Innings []service.InningsView `json:"innings"`
}

type TotalsResponse struct {
	Totals map[string]int `json:"totals"`
}

type ScorecardResponse struct {
	Teams map[string]*service.TeamCard `json:"teams"`
}

type GetStandingsRequest struct {
	TournamentID string `json:"tournamentId"`
}

type StandingsResponse struct {
	Groups []standings.GroupTable `json:"groups"`
}

type GetPlayerLeadersRequest struct {
	TournamentID string `json:"tournamentId"`
	GroupID      string `json:"groupId"`
	Limit        int    `json:"limit"`
}

type PlayerLeadersResponse struct {
	Players []standings.Leader `json:"players"`
}

type ListMatchesRequest struct {
	TournamentID string `json:"tournamentId"`
	GroupID      string `json:"groupId"`
	Status       string `json:"status"`
}

type ListMatchesResponse struct {
	Matches []service.MatchInfo `json:"matches"`
}

type ListTeamsRequest struct{}

type ListTeamsResponse struct {
	Teams []service.TeamView `json:"teams"`
}

type ListPlayersRequest struct {
	TeamID string `json:"teamId"`
}

type ListPlayersResponse struct {
	Players []service.PlayerView `json:"players"`
}

type ListTournamentsRequest struct{}

type ListTournamentsResponse struct {
	Tournaments []service.TournamentView `json:"tournaments"`
}

type ListGroupsRequest struct {
	TournamentID string `json:"tournamentId"`
}

type ListGroupsResponse struct {
	Groups []service.GroupView `json:"groups"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MeRequest struct{}

type MeResponse struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}
