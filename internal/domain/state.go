package domain

import "time"

// End names one end of the pitch by who occupies it.
type End string

const (
	EndStriker    End = "striker"
	EndNonStriker End = "non-striker"
)

func (e End) Valid() bool {
	return e == EndStriker || e == EndNonStriker
}

func (e End) Other() End {
	if e == EndStriker {
		return EndNonStriker
	}
	return EndStriker
}

// Seat is an optional player assignment. The zero value is an empty seat.
type Seat struct {
	PlayerID string
	Name     string
}

func SeatFor(p Player) Seat {
	return Seat{PlayerID: p.ID, Name: p.FullName}
}

func (s Seat) Occupied() bool {
	return s.PlayerID != ""
}

func (s Seat) Is(playerID string) bool {
	return s.Occupied() && s.PlayerID == playerID
}

type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingBatter
	PendingOpeners
)

// Pending is the single operator action a match is blocked on, if any.
// End is meaningful only for PendingBatter.
type Pending struct {
	Kind PendingKind
	End  End
}

func AwaitingBatter(end End) Pending {
	return Pending{Kind: PendingBatter, End: end}
}

func AwaitingOpeners() Pending {
	return Pending{Kind: PendingOpeners}
}

func (p Pending) Blocked() bool {
	return p.Kind != PendingNone
}

type MatchState struct {
	MatchID          string
	CurrentInningsID string

	// live counters for the current innings
	Runs    int
	Wickets int
	Balls   int // legal balls

	Striker    Seat
	NonStriker Seat
	Bowler     Seat

	NextBallFreeHit bool
	Pending         Pending
	Target          int // 0 until the second innings starts
	LastEvent       string
	UpdatedAt       time.Time
}

// SeatAt returns the seat for the given end.
func (s *MatchState) SeatAt(end End) *Seat {
	if end == EndNonStriker {
		return &s.NonStriker
	}
	return &s.Striker
}

func (s *MatchState) SwapEnds() {
	s.Striker, s.NonStriker = s.NonStriker, s.Striker
}

func (s *MatchState) AtCrease(playerID string) bool {
	return s.Striker.Is(playerID) || s.NonStriker.Is(playerID)
}

// ResetForInnings zeroes the live cursor and points it at a new innings.
func (s *MatchState) ResetForInnings(inningsID string) {
	s.CurrentInningsID = inningsID
	s.Runs, s.Wickets, s.Balls = 0, 0, 0
	s.Striker, s.NonStriker, s.Bowler = Seat{}, Seat{}, Seat{}
	s.NextBallFreeHit = false
	s.Pending = Pending{}
}
