package scoring

import "cricket-score/internal/domain"

// EligibleBatters lists batting-side players who are neither out nor at the crease.
func EligibleBatters(s Snapshot) []domain.Player {
	eligible := make([]domain.Player, 0, len(s.BattingSquad))
	for _, p := range s.BattingSquad {
		if s.Out[p.ID] || s.State.AtCrease(p.ID) {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// AllOutThreshold is the wicket count that ends the innings.
func AllOutThreshold(s Snapshot) int {
	if n := len(s.BattingSquad) - 1; n > 0 {
		return n
	}
	return 0
}
