package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/vytor/ninebynine/internal/db"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/repository/sqlite"
	"github.com/vytor/ninebynine/internal/testutil"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"ninebynine"}, args...))
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	return coder.ExitCode()
}

func TestExport_MissingSavePath(t *testing.T) {
	out, err := runApp(t, "--name", "alice", "--path", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, "Save path not exist.\n", out)
}

func TestExport_MissingFlags(t *testing.T) {
	out, err := runApp(t, "--name", "alice")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "Both --name and --path are required.\n")
}

func TestExport_InvalidConfig(t *testing.T) {
	t.Setenv("PAGE_RETRY_POLICY", "sometimes")

	out, err := runApp(t, "-n", "alice", "-p", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "Error: configuration validation failed: PAGE_RETRY_POLICY")
}

func TestExport_InvalidPageRange(t *testing.T) {
	out, err := runApp(t, "-n", "alice", "-p", t.TempDir(), "--from-page", "4", "--to-page", "2")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "TO_PAGE must not be less than FROM_PAGE")
}

func TestExport_SeveralPlayers(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	t.Setenv("OGS_API_URL", fake.BaseURL())

	out, err := runApp(t, "-n", "ghost", "-n", "phantom, ghost", "-p", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "Player ghost:\nPlayer not found.\nPlayer phantom:\nPlayer not found.\n", out)
	assert.Equal(t, []string{"/api/v1/ui/omniSearch?q=ghost", "/api/v1/ui/omniSearch?q=phantom"}, fake.Hits())
}

func TestExport_PlayerNotFound(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	t.Setenv("OGS_API_URL", fake.BaseURL())

	out, err := runApp(t, "-n", "ghost", "-p", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "Player not found.\n", out)
	assert.Len(t, fake.Hits(), 1)
}

func TestExport_NoNineByNineGames(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	fake.Players = []models.Player{{ID: 2, Username: "bob"}}
	fake.Games[2] = []models.GameSummary{{ID: 20, Width: 19, Ended: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)}}
	t.Setenv("OGS_API_URL", fake.BaseURL())

	out, err := runApp(t, "-n", "bob", "-p", t.TempDir(), "--no-color")
	require.NoError(t, err)
	assert.Equal(t, "9x9 games not found.\n", out)
}

func TestExport_UpstreamFailureExitsNonZero(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	fake.SearchStatus = 503
	t.Setenv("OGS_API_URL", fake.BaseURL())

	out, err := runApp(t, "-n", "alice", "-p", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Equal(t, "Error response from OGS. Exit\n", out)
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ninebynine dev (commit: unknown)\n", out)
}

func TestCache_StatsAndPrune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "sgf.db")

	database, err := db.Open(path)
	require.NoError(t, err)
	repo := sqlite.NewSGFRepository(database.DB)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, models.CachedSGF{GameID: 1, Content: "(;a)", FetchedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, repo.Put(ctx, models.CachedSGF{GameID: 2, Content: "(;b)", FetchedAt: time.Now()}))
	require.NoError(t, database.Close())

	out, err := runApp(t, "cache", "stats", "--cache", path)
	require.NoError(t, err)
	assert.Equal(t, "2 games cached.\n", out)

	out, err = runApp(t, "cache", "prune", "--cache", path, "--older-than", "24h")
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 cached games.\n", out)

	out, err = runApp(t, "cache", "stats", "--cache", path)
	require.NoError(t, err)
	assert.Equal(t, "1 games cached.\n", out)
}

func TestCache_NotConfigured(t *testing.T) {
	t.Setenv("SGF_CACHE_PATH", "")

	out, err := runApp(t, "cache", "stats")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Equal(t, "No SGF cache configured; set SGF_CACHE_PATH or --cache.\n", out)
}
