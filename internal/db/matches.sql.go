package db

import (
	"context"
	"time"
)

const matchColumns = `id, title, team_a_id, team_b_id, max_overs, status, tournament_id, group_id, created_at, updated_at`

func scanMatch(s interface{ Scan(...interface{}) error }) (Match, error) {
	var i Match
	err := s.Scan(
		&i.ID,
		&i.Title,
		&i.TeamAID,
		&i.TeamBID,
		&i.MaxOvers,
		&i.Status,
		&i.TournamentID,
		&i.GroupID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertMatchByTitle = `
INSERT INTO matches (id, title, team_a_id, team_b_id, max_overs, status, tournament_id, group_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (title) DO UPDATE SET
    team_a_id = excluded.team_a_id,
    team_b_id = excluded.team_b_id,
    max_overs = CASE WHEN matches.status = 'scheduled' THEN excluded.max_overs ELSE matches.max_overs END,
    tournament_id = excluded.tournament_id,
    group_id = excluded.group_id,
    updated_at = excluded.updated_at
RETURNING id
`

type UpsertMatchParams struct {
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

func (q *Queries) UpsertMatchByTitle(ctx context.Context, arg UpsertMatchParams) (string, error) {
	row := q.db.QueryRowContext(ctx, upsertMatchByTitle,
		arg.ID,
		arg.Title,
		arg.TeamAID,
		arg.TeamBID,
		arg.MaxOvers,
		arg.Status,
		arg.TournamentID,
		arg.GroupID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id string
	err := row.Scan(&id)
	return id, err
}

const getMatch = `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`

func (q *Queries) GetMatch(ctx context.Context, id string) (Match, error) {
	return scanMatch(q.db.QueryRowContext(ctx, getMatch, id))
}

// empty filters match everything
const listMatches = `
SELECT ` + matchColumns + ` FROM matches
WHERE (?1 = '' OR tournament_id = ?1)
  AND (?2 = '' OR group_id = ?2)
  AND (?3 = '' OR status = ?3)
ORDER BY created_at, title
`

type ListMatchesParams struct {
	TournamentID string
	GroupID      string
	Status       string
}

func (q *Queries) ListMatches(ctx context.Context, arg ListMatchesParams) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatches, arg.TournamentID, arg.GroupID, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		i, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMatchStatus = `
UPDATE matches SET status = ?, max_overs = ?, updated_at = ? WHERE id = ?
`

type UpdateMatchStatusParams struct {
	Status    string
	MaxOvers  int64
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateMatchStatus(ctx context.Context, arg UpdateMatchStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateMatchStatus, arg.Status, arg.MaxOvers, arg.UpdatedAt, arg.ID)
	return err
}

const inningsColumns = `id, match_id, number, batting_team_id, bowling_team_id, runs, wickets, legal_balls, extras, started_at, ended_at`

func scanInnings(s interface{ Scan(...interface{}) error }) (Inning, error) {
	var i Inning
	err := s.Scan(
		&i.ID,
		&i.MatchID,
		&i.Number,
		&i.BattingTeamID,
		&i.BowlingTeamID,
		&i.Runs,
		&i.Wickets,
		&i.LegalBalls,
		&i.Extras,
		&i.StartedAt,
		&i.EndedAt,
	)
	return i, err
}

const insertInnings = `
INSERT INTO innings (id, match_id, number, batting_team_id, bowling_team_id, runs, wickets, legal_balls, extras, started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertInnings(ctx context.Context, arg Inning) error {
	_, err := q.db.ExecContext(ctx, insertInnings,
		arg.ID,
		arg.MatchID,
		arg.Number,
		arg.BattingTeamID,
		arg.BowlingTeamID,
		arg.Runs,
		arg.Wickets,
		arg.LegalBalls,
		arg.Extras,
		arg.StartedAt,
		arg.EndedAt,
	)
	return err
}

const updateInningsTally = `
UPDATE innings SET runs = ?, wickets = ?, legal_balls = ?, extras = ?, ended_at = ? WHERE id = ?
`

type UpdateInningsTallyParams struct {
	Runs       int64
	Wickets    int64
	LegalBalls int64
	Extras     int64
	EndedAt    *time.Time
	ID         string
}

func (q *Queries) UpdateInningsTally(ctx context.Context, arg UpdateInningsTallyParams) error {
	_, err := q.db.ExecContext(ctx, updateInningsTally,
		arg.Runs,
		arg.Wickets,
		arg.LegalBalls,
		arg.Extras,
		arg.EndedAt,
		arg.ID,
	)
	return err
}

const listInningsByMatch = `SELECT ` + inningsColumns + ` FROM innings WHERE match_id = ? ORDER BY number`

func (q *Queries) ListInningsByMatch(ctx context.Context, matchID string) ([]Inning, error) {
	rows, err := q.db.QueryContext(ctx, listInningsByMatch, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Inning
	for rows.Next() {
		i, err := scanInnings(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listInningsByTournament = `
SELECT i.id, i.match_id, i.number, i.batting_team_id, i.bowling_team_id, i.runs, i.wickets, i.legal_balls, i.extras, i.started_at, i.ended_at
FROM innings i
JOIN matches m ON m.id = i.match_id
WHERE m.tournament_id = ?
ORDER BY i.match_id, i.number
`

func (q *Queries) ListInningsByTournament(ctx context.Context, tournamentID string) ([]Inning, error) {
	rows, err := q.db.QueryContext(ctx, listInningsByTournament, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Inning
	for rows.Next() {
		i, err := scanInnings(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const matchStateColumns = `match_id, current_innings_id, runs, wickets, balls,
    striker_id, striker_name, non_striker_id, non_striker_name, bowler_id, bowler_name,
    next_ball_free_hit, waiting_for_new_batter, waiting_for_new_batter_end, waiting_for_openers,
    target, last_event, updated_at`

const getMatchState = `SELECT ` + matchStateColumns + ` FROM match_states WHERE match_id = ?`

func (q *Queries) GetMatchState(ctx context.Context, matchID string) (MatchState, error) {
	row := q.db.QueryRowContext(ctx, getMatchState, matchID)
	var i MatchState
	err := row.Scan(
		&i.MatchID,
		&i.CurrentInningsID,
		&i.Runs,
		&i.Wickets,
		&i.Balls,
		&i.StrikerID,
		&i.StrikerName,
		&i.NonStrikerID,
		&i.NonStrikerName,
		&i.BowlerID,
		&i.BowlerName,
		&i.NextBallFreeHit,
		&i.WaitingForNewBatter,
		&i.WaitingForNewBatterEnd,
		&i.WaitingForOpeners,
		&i.Target,
		&i.LastEvent,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertMatchState = `
INSERT INTO match_states (` + matchStateColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id) DO UPDATE SET
    current_innings_id = excluded.current_innings_id,
    runs = excluded.runs,
    wickets = excluded.wickets,
    balls = excluded.balls,
    striker_id = excluded.striker_id,
    striker_name = excluded.striker_name,
    non_striker_id = excluded.non_striker_id,
    non_striker_name = excluded.non_striker_name,
    bowler_id = excluded.bowler_id,
    bowler_name = excluded.bowler_name,
    next_ball_free_hit = excluded.next_ball_free_hit,
    waiting_for_new_batter = excluded.waiting_for_new_batter,
    waiting_for_new_batter_end = excluded.waiting_for_new_batter_end,
    waiting_for_openers = excluded.waiting_for_openers,
    target = excluded.target,
    last_event = excluded.last_event,
    updated_at = excluded.updated_at
`

func (q *Queries) UpsertMatchState(ctx context.Context, arg MatchState) error {
	_, err := q.db.ExecContext(ctx, upsertMatchState,
		arg.MatchID,
		arg.CurrentInningsID,
		arg.Runs,
		arg.Wickets,
		arg.Balls,
		arg.StrikerID,
		arg.StrikerName,
		arg.NonStrikerID,
		arg.NonStrikerName,
		arg.BowlerID,
		arg.BowlerName,
		arg.NextBallFreeHit,
		arg.WaitingForNewBatter,
		arg.WaitingForNewBatterEnd,
		arg.WaitingForOpeners,
		arg.Target,
		arg.LastEvent,
		arg.UpdatedAt,
	)
	return err
}

const upsertMatchResult = `
INSERT INTO match_results (match_id, winner_team_id, loser_team_id, is_tie, is_no_result, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id) DO UPDATE SET
    winner_team_id = excluded.winner_team_id,
    loser_team_id = excluded.loser_team_id,
    is_tie = excluded.is_tie,
    is_no_result = excluded.is_no_result
`

func (q *Queries) UpsertMatchResult(ctx context.Context, arg MatchResult) error {
	_, err := q.db.ExecContext(ctx, upsertMatchResult,
		arg.MatchID,
		arg.WinnerTeamID,
		arg.LoserTeamID,
		arg.IsTie,
		arg.IsNoResult,
		arg.CreatedAt,
	)
	return err
}

const getMatchResult = `
SELECT match_id, winner_team_id, loser_team_id, is_tie, is_no_result, created_at
FROM match_results WHERE match_id = ?
`

func (q *Queries) GetMatchResult(ctx context.Context, matchID string) (MatchResult, error) {
	row := q.db.QueryRowContext(ctx, getMatchResult, matchID)
	var i MatchResult
	err := row.Scan(&i.MatchID, &i.WinnerTeamID, &i.LoserTeamID, &i.IsTie, &i.IsNoResult, &i.CreatedAt)
	return i, err
}

const listMatchResultsByTournament = `
SELECT r.match_id, r.winner_team_id, r.loser_team_id, r.is_tie, r.is_no_result, r.created_at
FROM match_results r
JOIN matches m ON m.id = r.match_id
WHERE m.tournament_id = ?
`

func (q *Queries) ListMatchResultsByTournament(ctx context.Context, tournamentID string) ([]MatchResult, error) {
	rows, err := q.db.QueryContext(ctx, listMatchResultsByTournament, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchResult
	for rows.Next() {
		var i MatchResult
		if err := rows.Scan(&i.MatchID, &i.WinnerTeamID, &i.LoserTeamID, &i.IsTie, &i.IsNoResult, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
