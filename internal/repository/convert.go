package repository

import (
	"cricket-score/internal/db"
	"cricket-score/internal/domain"
)

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDomainTeam(t db.Team) domain.Team {
	return domain.Team{
		ID:        t.ID,
		Name:      t.Name,
		ShortName: t.ShortName,
		CreatedAt: t.CreatedAt,
	}
}

func toDomainPlayer(p db.Player) domain.Player {
	return domain.Player{
		ID:           p.ID,
		TeamID:       p.TeamID,
		FullName:     p.FullName,
		Role:         p.Role,
		BattingStyle: p.BattingStyle,
		BowlingStyle: p.BowlingStyle,
		CreatedAt:    p.CreatedAt,
	}
}

func toDomainMatch(m db.Match) domain.Match {
	return domain.Match{
		ID:           m.ID,
		Title:        m.Title,
		TeamAID:      m.TeamAID,
		TeamBID:      m.TeamBID,
		MaxOvers:     int(m.MaxOvers),
		Status:       domain.MatchStatus(m.Status),
		TournamentID: derefStr(m.TournamentID),
		GroupID:      derefStr(m.GroupID),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainInnings(i db.Inning) domain.Innings {
	return domain.Innings{
		ID:            i.ID,
		MatchID:       i.MatchID,
		Number:        int(i.Number),
		BattingTeamID: i.BattingTeamID,
		BowlingTeamID: i.BowlingTeamID,
		Runs:          int(i.Runs),
		Wickets:       int(i.Wickets),
		LegalBalls:    int(i.LegalBalls),
		Extras:        int(i.Extras),
		StartedAt:     i.StartedAt,
		EndedAt:       i.EndedAt,
	}
}

func fromDomainInnings(i domain.Innings) db.Inning {
	return db.Inning{
		ID:            i.ID,
		MatchID:       i.MatchID,
		Number:        int64(i.Number),
		BattingTeamID: i.BattingTeamID,
		BowlingTeamID: i.BowlingTeamID,
		Runs:          int64(i.Runs),
		Wickets:       int64(i.Wickets),
		LegalBalls:    int64(i.LegalBalls),
		Extras:        int64(i.Extras),
		StartedAt:     i.StartedAt,
		EndedAt:       i.EndedAt,
	}
}

// toDomainState folds the three persisted gate columns back into one Pending.
func toDomainState(s db.MatchState) domain.MatchState {
	st := domain.MatchState{
		MatchID:          s.MatchID,
		CurrentInningsID: s.CurrentInningsID,
		Runs:             int(s.Runs),
		Wickets:          int(s.Wickets),
		Balls:            int(s.Balls),
		Striker:          domain.Seat{PlayerID: s.StrikerID, Name: s.StrikerName},
		NonStriker:       domain.Seat{PlayerID: s.NonStrikerID, Name: s.NonStrikerName},
		Bowler:           domain.Seat{PlayerID: s.BowlerID, Name: s.BowlerName},
		NextBallFreeHit:  s.NextBallFreeHit,
		Target:           int(s.Target),
		LastEvent:        s.LastEvent,
		UpdatedAt:        s.UpdatedAt,
	}
	switch {
	case s.WaitingForOpeners:
		st.Pending = domain.AwaitingOpeners()
	case s.WaitingForNewBatter:
		end := domain.End(s.WaitingForNewBatterEnd)
		if !end.Valid() {
			end = domain.EndStriker
		}
		st.Pending = domain.AwaitingBatter(end)
	}
	return st
}

func fromDomainState(s domain.MatchState) db.MatchState {
	row := db.MatchState{
		MatchID:           s.MatchID,
		CurrentInningsID:  s.CurrentInningsID,
		Runs:              int64(s.Runs),
		Wickets:           int64(s.Wickets),
		Balls:             int64(s.Balls),
		StrikerID:         s.Striker.PlayerID,
		StrikerName:       s.Striker.Name,
		NonStrikerID:      s.NonStriker.PlayerID,
		NonStrikerName:    s.NonStriker.Name,
		BowlerID:          s.Bowler.PlayerID,
		BowlerName:        s.Bowler.Name,
		NextBallFreeHit:   s.NextBallFreeHit,
		WaitingForOpeners: s.Pending.Kind == domain.PendingOpeners,
		Target:            int64(s.Target),
		LastEvent:         s.LastEvent,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.Pending.Kind == domain.PendingBatter {
		row.WaitingForNewBatter = true
		row.WaitingForNewBatterEnd = string(s.Pending.End)
	}
	return row
}

func toDomainBall(b db.BallEvent) domain.BallEvent {
	return domain.BallEvent{
		ID:                b.ID,
		MatchID:           b.MatchID,
		InningsID:         b.InningsID,
		Seq:               int(b.Seq),
		BatterID:          b.BatterID,
		BowlerID:          b.BowlerID,
		Runs:              int(b.Runs),
		Wicket:            b.Wicket,
		Kind:              domain.DeliveryKind(b.Kind),
		BallsBefore:       int(b.BallsBefore),
		DismissalType:     b.DismissalType,
		OutEnd:            domain.End(b.OutEnd),
		DismissedPlayerID: b.DismissedPlayerID,
		FreeHit:           b.FreeHit,
		Note:              b.Note,
		CreatedAt:         b.CreatedAt,
	}
}

func fromDomainBall(b domain.BallEvent) db.BallEvent {
	return db.BallEvent{
		ID:                b.ID,
		MatchID:           b.MatchID,
		InningsID:         b.InningsID,
		Seq:               int64(b.Seq),
		BatterID:          b.BatterID,
		BowlerID:          b.BowlerID,
		Runs:              int64(b.Runs),
		Wicket:            b.Wicket,
		Kind:              string(b.Kind),
		BallsBefore:       int64(b.BallsBefore),
		DismissalType:     b.DismissalType,
		OutEnd:            string(b.OutEnd),
		DismissedPlayerID: b.DismissedPlayerID,
		FreeHit:           b.FreeHit,
		Note:              b.Note,
		CreatedAt:         b.CreatedAt,
	}
}

func toDomainStats(s db.PlayerStat) domain.PlayerStats {
	return domain.PlayerStats{
		MatchID:      s.MatchID,
		PlayerID:     s.PlayerID,
		TeamID:       s.TeamID,
		Runs:         int(s.Runs),
		BallsFaced:   int(s.BallsFaced),
		Fours:        int(s.Fours),
		Sixes:        int(s.Sixes),
		IsOut:        s.IsOut,
		HowOut:       s.HowOut,
		BallsBowled:  int(s.BallsBowled),
		RunsConceded: int(s.RunsConceded),
		Wickets:      int(s.Wickets),
	}
}

func fromDomainStats(s domain.PlayerStats) db.PlayerStat {
	return db.PlayerStat{
		MatchID:      s.MatchID,
		PlayerID:     s.PlayerID,
		TeamID:       s.TeamID,
		Runs:         int64(s.Runs),
		BallsFaced:   int64(s.BallsFaced),
		Fours:        int64(s.Fours),
		Sixes:        int64(s.Sixes),
		IsOut:        s.IsOut,
		HowOut:       s.HowOut,
		BallsBowled:  int64(s.BallsBowled),
		RunsConceded: int64(s.RunsConceded),
		Wickets:      int64(s.Wickets),
	}
}

func toDomainResult(r db.MatchResult) domain.MatchResult {
	return domain.MatchResult{
		MatchID:      r.MatchID,
		WinnerTeamID: derefStr(r.WinnerTeamID),
		LoserTeamID:  derefStr(r.LoserTeamID),
		IsTie:        r.IsTie,
		IsNoResult:   r.IsNoResult,
		CreatedAt:    r.CreatedAt,
	}
}

func fromDomainResult(r domain.MatchResult) db.MatchResult {
	return db.MatchResult{
		MatchID:      r.MatchID,
		WinnerTeamID: strPtr(r.WinnerTeamID),
		LoserTeamID:  strPtr(r.LoserTeamID),
		IsTie:        r.IsTie,
		IsNoResult:   r.IsNoResult,
		CreatedAt:    r.CreatedAt,
	}
}
