package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/database"
	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	sDB, err := database.NewFromEnv(ctx, &database.Config{FilePath: filepath.Join(t.TempDir(), "results.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sDB.Close(ctx) })

	return New(sDB)
}

func TestRecordRounds(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	for _, n := range []int{10, 2, 1} {
		require.NoError(t, db.RecordRound(ctx, game.RoundResult{
			GameID:      "g1",
			RoundNumber: n,
			Category:    category.Sayings,
			Status:      game.RoundGuessed,
		}))
	}
	require.NoError(t, db.RecordRound(ctx, game.RoundResult{GameID: "g2", RoundNumber: 1, Status: game.RoundTimeout}))

	rounds, err := db.FetchRounds("g1")
	require.NoError(t, err)
	require.Len(t, rounds, 3)
	assert.Equal(t, 1, rounds[0].RoundNumber)
	assert.Equal(t, 2, rounds[1].RoundNumber)
	assert.Equal(t, 10, rounds[2].RoundNumber)
	assert.NotEmpty(t, rounds[0].ID)

	rounds, err = db.FetchRounds("none")
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestRecordGame(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.FetchGame("g1")
	assert.ErrorIs(t, err, ErrNotFound)

	started := time.Now().Add(-10 * time.Minute)
	for i, id := range []string{"g1", "g2"} {
		require.NoError(t, db.RecordGame(ctx, game.Result{
			GameID:           id,
			RoomCode:         "ROOM",
			VictoryCondition: state.FirstTo3,
			WinnerTeamID:     "t1",
			Scores:           []game.TeamScore{{TeamID: "t1", TeamNumber: 1, Score: 3}, {TeamID: "t2", TeamNumber: 2, Score: 1}},
			Rounds:           7,
			StartedAt:        started,
			FinishedAt:       started.Add(time.Duration(i+1) * time.Minute),
		}))
	}

	g, err := db.FetchGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "t1", g.WinnerTeamID)
	assert.Equal(t, 7, g.Rounds)
	assert.Equal(t, time.Minute, g.Duration().Round(time.Second))

	games, err := db.FetchByRoomCode("ROOM")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "g2", games[0].GameID)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, db.RecordGame(cancelled, game.Result{GameID: "g3"}), context.Canceled)
}
