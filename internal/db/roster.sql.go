package db

import (
	"context"
	"time"
)

const upsertTeam = `
INSERT INTO teams (id, name, short_name, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET short_name = excluded.short_name
RETURNING id
`

type UpsertTeamParams struct {
	ID        string
	Name      string
	ShortName string
	CreatedAt time.Time
}

func (q *Queries) UpsertTeam(ctx context.Context, arg UpsertTeamParams) (string, error) {
	row := q.db.QueryRowContext(ctx, upsertTeam, arg.ID, arg.Name, arg.ShortName, arg.CreatedAt)
	var id string
	err := row.Scan(&id)
	return id, err
}

const getTeam = `
SELECT id, name, short_name, created_at FROM teams WHERE id = ?
`

func (q *Queries) GetTeam(ctx context.Context, id string) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, id)
	var i Team
	err := row.Scan(&i.ID, &i.Name, &i.ShortName, &i.CreatedAt)
	return i, err
}

const getTeamByName = `
SELECT id, name, short_name, created_at FROM teams WHERE name = ?
`

func (q *Queries) GetTeamByName(ctx context.Context, name string) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeamByName, name)
	var i Team
	err := row.Scan(&i.ID, &i.Name, &i.ShortName, &i.CreatedAt)
	return i, err
}

const listTeams = `
SELECT id, name, short_name, created_at FROM teams ORDER BY name
`

func (q *Queries) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var i Team
		if err := rows.Scan(&i.ID, &i.Name, &i.ShortName, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertPlayer = `
INSERT INTO players (id, team_id, full_name, role, batting_style, bowling_style, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (team_id, full_name) DO UPDATE SET
    role = excluded.role,
    batting_style = excluded.batting_style,
    bowling_style = excluded.bowling_style
RETURNING id
`

type UpsertPlayerParams struct {
	ID           string
	TeamID       string
	FullName     string
	Role         string
	BattingStyle string
	BowlingStyle string
	CreatedAt    time.Time
}

func (q *Queries) UpsertPlayer(ctx context.Context, arg UpsertPlayerParams) (string, error) {
	row := q.db.QueryRowContext(ctx, upsertPlayer,
		arg.ID,
		arg.TeamID,
		arg.FullName,
		arg.Role,
		arg.BattingStyle,
		arg.BowlingStyle,
		arg.CreatedAt,
	)
	var id string
	err := row.Scan(&id)
	return id, err
}

const playerColumns = `id, team_id, full_name, role, batting_style, bowling_style, created_at`

func scanPlayer(s interface{ Scan(...interface{}) error }) (Player, error) {
	var i Player
	err := s.Scan(
		&i.ID,
		&i.TeamID,
		&i.FullName,
		&i.Role,
		&i.BattingStyle,
		&i.BowlingStyle,
		&i.CreatedAt,
	)
	return i, err
}

const getPlayer = `SELECT ` + playerColumns + ` FROM players WHERE id = ?`

func (q *Queries) GetPlayer(ctx context.Context, id string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayer, id))
}

// an empty team id lists every player
const listPlayers = `
SELECT ` + playerColumns + ` FROM players
WHERE (?1 = '' OR team_id = ?1)
ORDER BY full_name
`

func (q *Queries) ListPlayers(ctx context.Context, teamID string) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const upsertTournament = `
INSERT INTO tournaments (id, name, start_date, end_date, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
    start_date = excluded.start_date,
    end_date = excluded.end_date
RETURNING id
`

type UpsertTournamentParams struct {
	ID        string
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

func (q *Queries) UpsertTournament(ctx context.Context, arg UpsertTournamentParams) (string, error) {
	row := q.db.QueryRowContext(ctx, upsertTournament, arg.ID, arg.Name, arg.StartDate, arg.EndDate, arg.CreatedAt)
	var id string
	err := row.Scan(&id)
	return id, err
}

const listTournaments = `
SELECT id, name, start_date, end_date, created_at FROM tournaments ORDER BY created_at DESC
`

func (q *Queries) ListTournaments(ctx context.Context) ([]Tournament, error) {
	rows, err := q.db.QueryContext(ctx, listTournaments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tournament
	for rows.Next() {
		var i Tournament
		if err := rows.Scan(&i.ID, &i.Name, &i.StartDate, &i.EndDate, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertGroup = `
INSERT INTO tournament_groups (id, tournament_id, name)
VALUES (?, ?, ?)
ON CONFLICT (tournament_id, name) DO UPDATE SET name = excluded.name
RETURNING id
`

type UpsertGroupParams struct {
	ID           string
	TournamentID string
	Name         string
}

func (q *Queries) UpsertGroup(ctx context.Context, arg UpsertGroupParams) (string, error) {
	row := q.db.QueryRowContext(ctx, upsertGroup, arg.ID, arg.TournamentID, arg.Name)
	var id string
	err := row.Scan(&id)
	return id, err
}

const listGroupsByTournament = `
SELECT id, tournament_id, name FROM tournament_groups WHERE tournament_id = ? ORDER BY name
`

func (q *Queries) ListGroupsByTournament(ctx context.Context, tournamentID string) ([]TournamentGroup, error) {
	rows, err := q.db.QueryContext(ctx, listGroupsByTournament, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TournamentGroup
	for rows.Next() {
		var i TournamentGroup
		if err := rows.Scan(&i.ID, &i.TournamentID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const addGroupTeam = `
INSERT INTO group_teams (group_id, team_id) VALUES (?, ?)
ON CONFLICT (group_id, team_id) DO NOTHING
`

func (q *Queries) AddGroupTeam(ctx context.Context, arg GroupTeam) error {
	_, err := q.db.ExecContext(ctx, addGroupTeam, arg.GroupID, arg.TeamID)
	return err
}

const listGroupTeamsByTournament = `
SELECT gt.group_id, gt.team_id
FROM group_teams gt
JOIN tournament_groups g ON g.id = gt.group_id
WHERE g.tournament_id = ?
`

func (q *Queries) ListGroupTeamsByTournament(ctx context.Context, tournamentID string) ([]GroupTeam, error) {
	rows, err := q.db.QueryContext(ctx, listGroupTeamsByTournament, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GroupTeam
	for rows.Next() {
		var i GroupTeam
		if err := rows.Scan(&i.GroupID, &i.TeamID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
