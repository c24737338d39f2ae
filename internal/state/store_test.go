package state

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/turn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams(gameID, code string) Params {
	team1 := []turn.Player{{UserID: "a", Username: "A"}, {UserID: "b", Username: "B"}}
	team2 := []turn.Player{{UserID: "c", Username: "C"}, {UserID: "d", Username: "D"}}
	order, _ := turn.GenerateOrder(team1, team2)

	return Params{
		GameID:           gameID,
		RoomID:           "room-" + gameID,
		RoomCode:         code,
		VictoryCondition: FirstTo3,
		Teams: [2]TeamState{
			{TeamID: "t1", TeamNumber: 1},
			{TeamID: "t2", TeamNumber: 2},
		},
		TurnOrder:  order,
		Membership: map[string]string{"a": "t1", "b": "t1", "c": "t2", "d": "t2"},
	}
}

func TestStore_Initialize(t *testing.T) {
	t.Parallel()
	s := NewStore()

	gs, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, gs.Status)
	assert.Equal(t, 0, gs.CurrentRound)
	assert.Nil(t, gs.CurrentTurn)
	assert.Len(t, gs.TurnOrder, 4)

	byCode, ok := s.GetByRoomCode("ABC")
	require.True(t, ok)
	assert.Equal(t, "g1", byCode.GameID)

	_, err = s.Initialize(testParams("g1", "XYZ"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.Initialize(testParams("g2", "ABC"))
	assert.ErrorIs(t, err, ErrRoomCodeInUse)

	bad := testParams("g3", "QQQ")
	bad.TurnOrder = nil
	_, err = s.Initialize(bad)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestStore_RoomCodeReusableAfterFinish(t *testing.T) {
	t.Parallel()
	s := NewStore()

	_, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)

	_, err = s.Update("g1", func(gs *GameState) error {
		gs.Status = StatusFinished
		gs.WinnerTeamID = "t1"
		return nil
	})
	require.NoError(t, err)

	_, err = s.Initialize(testParams("g2", "ABC"))
	require.NoError(t, err)

	gs, ok := s.GetByRoomCode("ABC")
	require.True(t, ok)
	assert.Equal(t, "g2", gs.GameID)

	old, ok := s.Get("g1")
	require.True(t, ok)
	assert.Equal(t, StatusFinished, old.Status)
	assert.NotNil(t, old.FinishedAt)
}

func TestStore_UpdateNotFound(t *testing.T) {
	t.Parallel()
	s := NewStore()

	_, err := s.Update("missing", func(gs *GameState) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateErrorLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Update("g1", func(gs *GameState) error {
		gs.Teams[0].Score = 2
		gs.CurrentRound = 7
		return boom
	})
	require.ErrorIs(t, err, boom)

	gs, _ := s.Get("g1")
	assert.Equal(t, 0, gs.Teams[0].Score)
	assert.Equal(t, 0, gs.CurrentRound)
}

func TestStore_UpdateRejectsInvalidStates(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)

	cases := map[string]func(gs *GameState) error{
		"category without word": func(gs *GameState) error {
			gs.CurrentTurn = &TurnState{Category: category.Objects}
			return nil
		},
		"duplicate category": func(gs *GameState) error {
			gs.Teams[0].CategoriesCompleted = []category.Category{category.Objects, category.Objects}
			return nil
		},
		"round goes back": func(gs *GameState) error {
			gs.CurrentRound = -1
			return nil
		},
		"team identity": func(gs *GameState) error {
			gs.Teams[1].TeamID = "other"
			return nil
		},
	}

	for name, fn := range cases {
		_, err := s.Update("g1", fn)
		assert.ErrorIs(t, err, ErrInvalidState, name)
	}
}

func TestStore_ImmutableFieldsRestored(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)

	gs, err := s.Update("g1", func(gs *GameState) error {
		gs.VictoryCondition = AllCategories
		gs.TurnOrder = gs.TurnOrder[:1]
		gs.RoomCode = "NOPE"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, FirstTo3, gs.VictoryCondition)
	assert.Len(t, gs.TurnOrder, 4)
	assert.Equal(t, "ABC", gs.RoomCode)
}

func TestStore_FinishedIsTerminal(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)

	_, err = s.Update("g1", func(gs *GameState) error {
		gs.Status = StatusFinished
		return nil
	})
	require.NoError(t, err)

	_, err = s.Update("g1", func(gs *GameState) error {
		gs.Teams[0].Score++
		return nil
	})
	assert.ErrorIs(t, err, ErrFinished)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)

	gs, _ := s.Get("g1")
	gs.Teams[0].CategoriesCompleted = append(gs.Teams[0].CategoriesCompleted, category.Sayings)
	gs.Membership["intruder"] = "t1"
	gs.TurnOrder[0].DrawerID = "zzz"

	fresh, _ := s.Get("g1")
	assert.Empty(t, fresh.Teams[0].CategoriesCompleted)
	assert.NotContains(t, fresh.Membership, "intruder")
	assert.Equal(t, "a", fresh.TurnOrder[0].DrawerID)
}

func TestStore_RemoveAndList(t *testing.T) {
	t.Parallel()
	s := NewStore()
	for i := 0; i < 3; i++ {
		_, err := s.Initialize(testParams(fmt.Sprintf("g%d", i), fmt.Sprintf("C%d", i)))
		require.NoError(t, err)
	}

	_, err := s.Update("g1", func(gs *GameState) error {
		gs.Status = StatusPaused
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, s.List(), 3)
	assert.Len(t, s.ListActive(), 2)

	assert.True(t, s.Remove("g0"))
	assert.False(t, s.Remove("g0"))

	_, ok := s.Get("g0")
	assert.False(t, ok)
	_, ok = s.GetByRoomCode("C0")
	assert.False(t, ok)

	_, err = s.Update("g0", func(gs *GameState) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, s.List(), 2)
}

func TestStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, err := s.Initialize(testParams("g1", "ABC"))
	require.NoError(t, err)
	_, err = s.Initialize(testParams("g2", "DEF"))
	require.NoError(t, err)

	const workers, iterations = 8, 200
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				for _, id := range []string{"g1", "g2"} {
					_, err := s.Update(id, func(gs *GameState) error {
						gs.CurrentRound++
						return nil
					})
					assert.NoError(t, err)
				}
			}
		}()
	}
	wg.Wait()

	for _, id := range []string{"g1", "g2"} {
		gs, _ := s.Get(id)
		assert.Equal(t, workers*iterations, gs.CurrentRound, id)
	}
}

func TestTeamState_AddCategory(t *testing.T) {
	t.Parallel()

	team := TeamState{}
	for i := 0; i < 3; i++ {
		for _, c := range category.All() {
			team.AddCategory(c)
		}
	}
	assert.Len(t, team.CategoriesCompleted, category.Total)
	assert.False(t, team.AddCategory(category.Actions))
	assert.False(t, team.AddCategory("colores"))
}
