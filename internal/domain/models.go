package domain

import (
	"time"
)

type Team struct {
	ID        string
	Name      string
	ShortName string
	CreatedAt time.Time
}

type Player struct {
	ID           string
	TeamID       string
	FullName     string
	Role         string // cosmetic
	BattingStyle string
	BowlingStyle string
	CreatedAt    time.Time
}

type Tournament struct {
	ID        string
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

type Group struct {
	ID           string
	TournamentID string
	Name         string
}

type GroupTeam struct {
	GroupID string
	TeamID  string
}

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
)

type Match struct {
	ID           string
	Title        string
	TeamAID      string
	TeamBID      string
	MaxOvers     int
	Status       MatchStatus
	TournamentID string // "" when friendly
	GroupID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Opponent returns the other side of the match, or "" if teamID is not playing.
func (m Match) Opponent(teamID string) string {
	switch teamID {
	case m.TeamAID:
		return m.TeamBID
	case m.TeamBID:
		return m.TeamAID
	}
	return ""
}

func (m Match) Has(teamID string) bool {
	return teamID != "" && (teamID == m.TeamAID || teamID == m.TeamBID)
}

type Innings struct {
	ID            string
	MatchID       string
	Number        int // 1 or 2
	BattingTeamID string
	BowlingTeamID string
	Runs          int
	Wickets       int
	LegalBalls    int
	Extras        int
	StartedAt     time.Time
	EndedAt       *time.Time
}

type DeliveryKind string

const (
	KindNormal DeliveryKind = "normal"
	KindWide   DeliveryKind = "wide"
	KindNoBall DeliveryKind = "no-ball"
	KindBye    DeliveryKind = "bye"
	KindLegBye DeliveryKind = "leg-bye"
)

func (k DeliveryKind) Valid() bool {
	switch k {
	case KindNormal, KindWide, KindNoBall, KindBye, KindLegBye:
		return true
	}
	return false
}

// Legal reports whether the delivery counts toward the over.
func (k DeliveryKind) Legal() bool {
	return k != KindWide && k != KindNoBall
}

type BallEvent struct {
	ID                string // nanoid
	MatchID           string
	InningsID         string
	Seq               int
	BatterID          string
	BowlerID          string
	Runs              int // off the bat, or byes for bye/leg-bye
	Wicket            bool
	Kind              DeliveryKind
	BallsBefore       int
	DismissalType     string
	OutEnd            End // set for run-outs only
	DismissedPlayerID string
	FreeHit           bool
	Note              string
	CreatedAt         time.Time
}

type PlayerStats struct {
	MatchID  string
	PlayerID string
	TeamID   string

	// batting
	Runs       int
	BallsFaced int
	Fours      int
	Sixes      int
	IsOut      bool
	HowOut     string

	// bowling
	BallsBowled  int
	RunsConceded int
	Wickets      int
}

// Add folds an increment into s. A dismissal in the increment wins.
func (s *PlayerStats) Add(delta PlayerStats) {
	s.Runs += delta.Runs
	s.BallsFaced += delta.BallsFaced
	s.Fours += delta.Fours
	s.Sixes += delta.Sixes
	s.BallsBowled += delta.BallsBowled
	s.RunsConceded += delta.RunsConceded
	s.Wickets += delta.Wickets
	if delta.IsOut {
		s.IsOut = true
		s.HowOut = delta.HowOut
	}
	if s.TeamID == "" {
		s.TeamID = delta.TeamID
	}
}

type MatchResult struct {
	MatchID      string
	WinnerTeamID string // "" for tie / no result
	LoserTeamID  string
	IsTie        bool
	IsNoResult   bool
	CreatedAt    time.Time
}
