package db

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
	Role         string
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

type TournamentGroup struct {
	ID           string
	TournamentID string
	Name         string
}

type GroupTeam struct {
	GroupID string
	TeamID  string
}

type Match struct {
	ID           string
	Title        string
	TeamAID      string
	TeamBID      string
	MaxOvers     int64
	Status       string
	TournamentID *string
	GroupID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Inning struct {
	ID            string
	MatchID       string
	Number        int64
	BattingTeamID string
	BowlingTeamID string
	Runs          int64
	Wickets       int64
	LegalBalls    int64
	Extras        int64
	StartedAt     time.Time
	EndedAt       *time.Time
}

type MatchState struct {
	MatchID                string
	CurrentInningsID       string
	Runs                   int64
	Wickets                int64
	Balls                  int64
	StrikerID              string
	StrikerName            string
	NonStrikerID           string
	NonStrikerName         string
	BowlerID               string
	BowlerName             string
	NextBallFreeHit        bool
	WaitingForNewBatter    bool
	WaitingForNewBatterEnd string
	WaitingForOpeners      bool
	Target                 int64
	LastEvent              string
	UpdatedAt              time.Time
}

type BallEvent struct {
	ID                string
	MatchID           string
	InningsID         string
	Seq               int64
	BatterID          string
	BowlerID          string
	Runs              int64
	Wicket            bool
	Kind              string
	BallsBefore       int64
	DismissalType     string
	OutEnd            string
	DismissedPlayerID string
	FreeHit           bool
	Note              string
	CreatedAt         time.Time
}

type PlayerStat struct {
	MatchID      string
	PlayerID     string
	TeamID       string
	Runs         int64
	BallsFaced   int64
	Fours        int64
	Sixes        int64
	IsOut        bool
	HowOut       string
	BallsBowled  int64
	RunsConceded int64
	Wickets      int64
}

type MatchResult struct {
	MatchID      string
	WinnerTeamID *string
	LoserTeamID  *string
	IsTie        bool
	IsNoResult   bool
	CreatedAt    time.Time
}
