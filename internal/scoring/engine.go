// Package scoring holds the limited-overs rules: ball application, lineup
// changes, innings progression and log replay. Everything here is a pure
// computation over an already loaded Snapshot; persistence and fan-out belong
// to the caller.
package scoring

import (
	"fmt"
	"time"

	"cricket-score/internal/domain"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	BallsPerOver      = 6
	DefaultMaxOvers   = 6
	PenaltyRuns       = 1
	oversPerBowlerDiv = 5
)

var AllowedOvers = map[int]bool{6: true, 8: true, 10: true, 20: true}

// BallLimit is the number of legal balls in a full innings.
func BallLimit(maxOvers int) int {
	return maxOvers * BallsPerOver
}

// BowlerBallLimit is the legal-ball cap per bowler per innings.
func BowlerBallLimit(maxOvers int) int {
	if maxOvers <= 0 {
		maxOvers = DefaultMaxOvers
	}
	overs := (maxOvers + oversPerBowlerDiv - 1) / oversPerBowlerDiv
	return overs * BallsPerOver
}

// Snapshot is everything the rules need about one match at one instant.
type Snapshot struct {
	Match   domain.Match
	State   domain.MatchState
	Innings domain.Innings // current
	First   *domain.Innings

	// InningsCount is how many innings exist for the match, current included.
	InningsCount int
	// Deliveries is the number of ball events already logged for Innings.
	Deliveries int

	BattingSquad []domain.Player
	BowlingSquad []domain.Player
	// Out holds batting-side players dismissed in this match.
	Out map[string]bool
}

func (s Snapshot) secondInnings() bool {
	return s.First != nil && s.First.ID != s.Innings.ID
}

// Target is the chase target, or 0 while the first innings is in progress.
func (s Snapshot) Target() int {
	if !s.secondInnings() {
		return 0
	}
	return s.First.Runs + 1
}

func (s Snapshot) requireLive() error {
	switch s.Match.Status {
	case domain.MatchFinished:
		return fmt.Errorf("match %s already finished: %w", s.Match.ID, domain.ErrInvalidState)
	case domain.MatchLive:
		return nil
	}
	return fmt.Errorf("match %s is not live: %w", s.Match.ID, domain.ErrInvalidState)
}

// Engine applies the rules. The id and clock hooks keep it deterministic in tests.
type Engine struct {
	NewID      func() string
	NewEventID func() string
	Now        func() time.Time
}

func New() *Engine {
	return &Engine{
		NewID: uuid.NewString,
		NewEventID: func() string {
			id, err := gonanoid.New()
			if err != nil {
				return uuid.NewString()
			}
			return id
		},
		Now: func() time.Time { return time.Now().UTC() },
	}
}
