package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bloops-games/sketchy/internal/cache"
	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/database"
	"github.com/bloops-games/sketchy/internal/database/word/model"
	"github.com/bloops-games/sketchy/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	sDB, err := database.NewFromEnv(ctx, &database.Config{FilePath: filepath.Join(t.TempDir(), "words.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sDB.Close(ctx) })

	c, err := cache.NewARC[category.Category, []model.Word](category.Total)
	require.NoError(t, err)

	return New(sDB, c)
}

func TestRandomWordByCategory(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.RandomWordByCategory(ctx, category.Objects)
	assert.ErrorIs(t, err, game.ErrNoWords)

	mesa := model.NewWord(category.Objects, "Mesa", model.Easy)
	require.NoError(t, db.Add(mesa))

	// the empty list read above must not stay cached
	w, err := db.RandomWordByCategory(ctx, category.Objects)
	require.NoError(t, err)
	assert.Equal(t, game.Word{ID: mesa.ID, Category: category.Objects, Text: "Mesa"}, w)

	_, err = db.RandomWordByCategory(ctx, category.Actions)
	assert.ErrorIs(t, err, game.ErrNoWords)

	require.NoError(t, db.SetActive(category.Objects, mesa.ID, false))
	_, err = db.RandomWordByCategory(ctx, category.Objects)
	assert.ErrorIs(t, err, game.ErrNoWords)

	_, err = db.RandomWordByCategory(ctx, "colores")
	assert.ErrorIs(t, err, category.ErrUnknown)
}

func TestRandomWordPicksOnlyActive(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	active := model.NewWord(category.Customs, "Mate", model.Easy)
	inactive := model.NewWord(category.Customs, "Asado", model.Easy)
	inactive.Active = false
	require.NoError(t, db.Add(active))
	require.NoError(t, db.Add(inactive))

	for i := 0; i < 20; i++ {
		w, err := db.RandomWordByCategory(context.Background(), category.Customs)
		require.NoError(t, err)
		assert.Equal(t, active.ID, w.ID)
	}
}

func TestAddValidates(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	assert.ErrorIs(t, db.Add(model.NewWord("colores", "Rojo", model.Easy)), category.ErrUnknown)
	assert.ErrorIs(t, db.Add(model.NewWord(category.Actions, "  ", model.Easy)), ErrEmptyText)
}

func TestSeed(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	defaults := model.Defaults()
	n, err := db.Seed(defaults)
	require.NoError(t, err)
	assert.Equal(t, len(defaults), n)

	counts, err := db.CountByCategory()
	require.NoError(t, err)
	total := 0
	for _, c := range category.All() {
		assert.GreaterOrEqual(t, counts[c], 20, c.String())
		total += counts[c]
	}
	assert.Equal(t, len(defaults), total)

	n, err = db.Seed(model.Defaults())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for _, c := range category.All() {
		w, err := db.RandomWordByCategory(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, c, w.Category)
	}
}
