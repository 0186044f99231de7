package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("ADMIN_PASS", "pass")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("REDIS_URL", "")
	t.Setenv("WEBHOOK_URL", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImportCommand(t *testing.T) {
	setEnv(t)

	out, err := run(t, "import", filepath.Join("..", "..", "internal", "importer", "testdata", "roster.yaml"))
	require.NoError(t, err)

	var summary struct {
		TournamentID string `json:"tournamentId"`
		Teams        int    `json:"teams"`
		Players      int    `json:"players"`
		Matches      int    `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.NotEmpty(t, summary.TournamentID)
	assert.Equal(t, 2, summary.Teams)
	assert.Equal(t, 4, summary.Players)
	assert.Equal(t, 1, summary.Matches)
}

func TestCommandArgs(t *testing.T) {
	setEnv(t)

	_, err := run(t, "import")
	assert.Error(t, err)

	_, err = run(t, "rebuild")
	assert.Error(t, err)

	_, err = run(t, "rebuild", "missing")
	assert.ErrorContains(t, err, "not found")
}
