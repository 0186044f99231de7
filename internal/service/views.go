package service

import (
	"fmt"
	"time"

	"cricket-score/internal/domain"
	"cricket-score/internal/scoring"
)

// The view types are the JSON shapes shared by RPC responses and live payloads.

type SeatView struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type StateView struct {
	MatchID                string    `json:"matchId"`
	CurrentInningsID       string    `json:"currentInningsId"`
	Runs                   int       `json:"runs"`
	Wickets                int       `json:"wickets"`
	Balls                  int       `json:"balls"`
	Overs                  string    `json:"overs"`
	Striker                *SeatView `json:"striker"`
	NonStriker             *SeatView `json:"nonStriker"`
	Bowler                 *SeatView `json:"bowler"`
	NextBallFreeHit        bool      `json:"nextBallFreeHit"`
	WaitingForNewBatter    bool      `json:"waitingForNewBatter"`
	WaitingForNewBatterEnd string    `json:"waitingForNewBatterEnd,omitempty"`
	WaitingForOpeners      bool      `json:"waitingForOpeners"`
	Target                 int       `json:"target,omitempty"`
	LastEvent              string    `json:"lastEvent"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

type MatchInfo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	TeamAID      string `json:"teamAId"`
	TeamBID      string `json:"teamBId"`
	MaxOvers     int    `json:"maxOvers"`
	Status       string `json:"status"`
	TournamentID string `json:"tournamentId,omitempty"`
	GroupID      string `json:"groupId,omitempty"`
}

type MatchView struct {
	Match  MatchInfo   `json:"match"`
	State  *StateView  `json:"state"`
	Result *ResultView `json:"result,omitempty"`
}

type InningsView struct {
	ID            string `json:"id"`
	Number        int    `json:"number"`
	BattingTeamID string `json:"battingTeamId"`
	BowlingTeamID string `json:"bowlingTeamId"`
	Runs          int    `json:"runs"`
	Wickets       int    `json:"wickets"`
	LegalBalls    int    `json:"legalBalls"`
	Overs         string `json:"overs"`
	Extras        int    `json:"extras"`
	Finished      bool   `json:"finished"`
}

type ResultView struct {
	WinnerTeamID string `json:"winnerTeamId,omitempty"`
	LoserTeamID  string `json:"loserTeamId,omitempty"`
	IsTie        bool   `json:"isTie"`
	IsNoResult   bool   `json:"isNoResult"`
}

type BallView struct {
	ID                string `json:"id"`
	Seq               int    `json:"seq"`
	Kind              string `json:"kind"`
	Runs              int    `json:"runs"`
	Wicket            bool   `json:"wicket"`
	FreeHit           bool   `json:"freeHit"`
	DismissedPlayerID string `json:"dismissedPlayerId,omitempty"`
}

type OverCompletePayload struct {
	Over     int        `json:"over"`
	BowlerID string     `json:"bowlerId"`
	State    *StateView `json:"state"`
}

type InningsChangedPayload struct {
	InningsNo int          `json:"inningsNo"`
	Target    int          `json:"target"`
	Ended     InningsView  `json:"ended"`
	Next      *InningsView `json:"next,omitempty"`
}

type MatchFinishedPayload struct {
	TeamAID      string     `json:"teamAId"`
	TeamBID      string     `json:"teamBId"`
	TotalA       int        `json:"totalA"`
	TotalB       int        `json:"totalB"`
	WinnerTeamID string     `json:"winnerTeamId,omitempty"`
	IsTie        bool       `json:"isTie"`
	Result       ResultView `json:"result"`
}

// Overs renders legal balls as O.B.
func Overs(balls int) string {
	return fmt.Sprintf("%d.%d", balls/scoring.BallsPerOver, balls%scoring.BallsPerOver)
}

func seatView(s domain.Seat) *SeatView {
	if !s.Occupied() {
		return nil
	}
	return &SeatView{PlayerID: s.PlayerID, Name: s.Name}
}

func stateView(s *domain.MatchState) *StateView {
	if s == nil {
		return nil
	}
	v := &StateView{
		MatchID:           s.MatchID,
		CurrentInningsID:  s.CurrentInningsID,
		Runs:              s.Runs,
		Wickets:           s.Wickets,
		Balls:             s.Balls,
		Overs:             Overs(s.Balls),
		Striker:           seatView(s.Striker),
		NonStriker:        seatView(s.NonStriker),
		Bowler:            seatView(s.Bowler),
		NextBallFreeHit:   s.NextBallFreeHit,
		WaitingForOpeners: s.Pending.Kind == domain.PendingOpeners,
		Target:            s.Target,
		LastEvent:         s.LastEvent,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.Pending.Kind == domain.PendingBatter {
		v.WaitingForNewBatter = true
		v.WaitingForNewBatterEnd = string(s.Pending.End)
	}
	return v
}

func matchInfo(m domain.Match) MatchInfo {
	return MatchInfo{
		ID:           m.ID,
		Title:        m.Title,
		TeamAID:      m.TeamAID,
		TeamBID:      m.TeamBID,
		MaxOvers:     m.MaxOvers,
		Status:       string(m.Status),
		TournamentID: m.TournamentID,
		GroupID:      m.GroupID,
	}
}

func matchView(m domain.Match, s *domain.MatchState) *MatchView {
	return &MatchView{Match: matchInfo(m), State: stateView(s)}
}

func inningsView(i domain.Innings) InningsView {
	return InningsView{
		ID:            i.ID,
		Number:        i.Number,
		BattingTeamID: i.BattingTeamID,
		BowlingTeamID: i.BowlingTeamID,
		Runs:          i.Runs,
		Wickets:       i.Wickets,
		LegalBalls:    i.LegalBalls,
		Overs:         Overs(i.LegalBalls),
		Extras:        i.Extras,
		Finished:      i.EndedAt != nil,
	}
}

func resultView(r domain.MatchResult) ResultView {
	return ResultView{
		WinnerTeamID: r.WinnerTeamID,
		LoserTeamID:  r.LoserTeamID,
		IsTie:        r.IsTie,
		IsNoResult:   r.IsNoResult,
	}
}

func ballView(e domain.BallEvent) BallView {
	return BallView{
		ID:                e.ID,
		Seq:               e.Seq,
		Kind:              string(e.Kind),
		Runs:              e.Runs,
		Wicket:            e.Wicket,
		FreeHit:           e.FreeHit,
		DismissedPlayerID: e.DismissedPlayerID,
	}
}
