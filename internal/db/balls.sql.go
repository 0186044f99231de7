package db

import (
	"context"
)

const insertBallEvent = `
INSERT INTO ball_events (
    id, match_id, innings_id, seq, batter_id, bowler_id, runs, wicket, kind, balls_before,
    dismissal_type, out_end, dismissed_player_id, free_hit, note, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertBallEvent(ctx context.Context, arg BallEvent) error {
	_, err := q.db.ExecContext(ctx, insertBallEvent,
		arg.ID,
		arg.MatchID,
		arg.InningsID,
		arg.Seq,
		arg.BatterID,
		arg.BowlerID,
		arg.Runs,
		arg.Wicket,
		arg.Kind,
		arg.BallsBefore,
		arg.DismissalType,
		arg.OutEnd,
		arg.DismissedPlayerID,
		arg.FreeHit,
		arg.Note,
		arg.CreatedAt,
	)
	return err
}

const listBallEventsByMatch = `
SELECT b.id, b.match_id, b.innings_id, b.seq, b.batter_id, b.bowler_id, b.runs, b.wicket, b.kind, b.balls_before,
       b.dismissal_type, b.out_end, b.dismissed_player_id, b.free_hit, b.note, b.created_at
FROM ball_events b
JOIN innings i ON i.id = b.innings_id
WHERE b.match_id = ?
ORDER BY i.number, b.seq
`

func (q *Queries) ListBallEventsByMatch(ctx context.Context, matchID string) ([]BallEvent, error) {
	rows, err := q.db.QueryContext(ctx, listBallEventsByMatch, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BallEvent
	for rows.Next() {
		var i BallEvent
		if err := rows.Scan(
			&i.ID,
			&i.MatchID,
			&i.InningsID,
			&i.Seq,
			&i.BatterID,
			&i.BowlerID,
			&i.Runs,
			&i.Wicket,
			&i.Kind,
			&i.BallsBefore,
			&i.DismissalType,
			&i.OutEnd,
			&i.DismissedPlayerID,
			&i.FreeHit,
			&i.Note,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countBallEventsByInnings = `SELECT COUNT(*) FROM ball_events WHERE innings_id = ?`

func (q *Queries) CountBallEventsByInnings(ctx context.Context, inningsID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countBallEventsByInnings, inningsID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countLegalBallsByBowler = `
SELECT COUNT(*) FROM ball_events
WHERE innings_id = ? AND bowler_id = ? AND kind IN ('normal', 'bye', 'leg-bye')
`

type CountLegalBallsByBowlerParams struct {
	InningsID string
	BowlerID  string
}

func (q *Queries) CountLegalBallsByBowler(ctx context.Context, arg CountLegalBallsByBowlerParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countLegalBallsByBowler, arg.InningsID, arg.BowlerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const addPlayerStats = `
INSERT INTO player_stats (
    match_id, player_id, team_id, runs, balls_faced, fours, sixes, is_out, how_out,
    balls_bowled, runs_conceded, wickets
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id, player_id) DO UPDATE SET
    runs = runs + excluded.runs,
    balls_faced = balls_faced + excluded.balls_faced,
    fours = fours + excluded.fours,
    sixes = sixes + excluded.sixes,
    is_out = is_out OR excluded.is_out,
    how_out = CASE WHEN excluded.is_out THEN excluded.how_out ELSE how_out END,
    balls_bowled = balls_bowled + excluded.balls_bowled,
    runs_conceded = runs_conceded + excluded.runs_conceded,
    wickets = wickets + excluded.wickets
`

// AddPlayerStats inserts the row or adds the given increments to it.
func (q *Queries) AddPlayerStats(ctx context.Context, arg PlayerStat) error {
	_, err := q.db.ExecContext(ctx, addPlayerStats,
		arg.MatchID,
		arg.PlayerID,
		arg.TeamID,
		arg.Runs,
		arg.BallsFaced,
		arg.Fours,
		arg.Sixes,
		arg.IsOut,
		arg.HowOut,
		arg.BallsBowled,
		arg.RunsConceded,
		arg.Wickets,
	)
	return err
}

const deletePlayerStatsByMatch = `DELETE FROM player_stats WHERE match_id = ?`

func (q *Queries) DeletePlayerStatsByMatch(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deletePlayerStatsByMatch, matchID)
	return err
}

const playerStatColumns = `s.match_id, s.player_id, s.team_id, s.runs, s.balls_faced, s.fours, s.sixes, s.is_out, s.how_out,
       s.balls_bowled, s.runs_conceded, s.wickets`

func scanPlayerStat(s interface{ Scan(...interface{}) error }) (PlayerStat, error) {
	var i PlayerStat
	err := s.Scan(
		&i.MatchID,
		&i.PlayerID,
		&i.TeamID,
		&i.Runs,
		&i.BallsFaced,
		&i.Fours,
		&i.Sixes,
		&i.IsOut,
		&i.HowOut,
		&i.BallsBowled,
		&i.RunsConceded,
		&i.Wickets,
	)
	return i, err
}

const listPlayerStatsByMatch = `
SELECT ` + playerStatColumns + ` FROM player_stats s WHERE s.match_id = ? ORDER BY s.player_id
`

func (q *Queries) ListPlayerStatsByMatch(ctx context.Context, matchID string) ([]PlayerStat, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerStatsByMatch, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerStat
	for rows.Next() {
		i, err := scanPlayerStat(rows)
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

// empty filters match every match
const listPlayerStatsFiltered = `
SELECT ` + playerStatColumns + `
FROM player_stats s
JOIN matches m ON m.id = s.match_id
WHERE (?1 = '' OR m.tournament_id = ?1)
  AND (?2 = '' OR m.group_id = ?2)
ORDER BY s.match_id, s.player_id
`

type ListPlayerStatsFilteredParams struct {
	TournamentID string
	GroupID      string
}

func (q *Queries) ListPlayerStatsFiltered(ctx context.Context, arg ListPlayerStatsFilteredParams) ([]PlayerStat, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerStatsFiltered, arg.TournamentID, arg.GroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerStat
	for rows.Next() {
		i, err := scanPlayerStat(rows)
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
