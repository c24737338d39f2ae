// Package state keeps the authoritative in-memory state of every running game.
package state

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/turn"
)

var (
	ErrNotFound         = errors.New("game not found")
	ErrAlreadyExists    = errors.New("game already exists")
	ErrRoomCodeInUse    = errors.New("room code has a running game")
	ErrFinished         = errors.New("game is finished")
	ErrInvalidState     = errors.New("invalid game state")
	ErrInvalidArguments = errors.New("invalid game arguments")
)

type Params struct {
	GameID           string
	RoomID           string
	RoomCode         string
	VictoryCondition VictoryCondition
	Teams            [2]TeamState
	TurnOrder        []turn.Turn
	// key: userId, value: teamId
	Membership map[string]string
}

type entry struct {
	mtx     sync.Mutex
	state   GameState
	removed bool
}

// Store maps game ids and room codes to game states. The map itself is guarded by a short
// RWMutex; every game has its own mutex so updates of different games never contend.
type Store struct {
	mtx sync.RWMutex
	// key: gameId
	games map[string]*entry
	// key: roomCode, value: gameId
	codes map[string]string

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		games: map[string]*entry{},
		codes: map[string]string{},
		now:   time.Now,
	}
}

// Initialize registers a freshly started game as active with round 0 and no current turn.
// A room code may be reused once the game previously holding it has finished.
func (s *Store) Initialize(p Params) (GameState, error) {
	if p.GameID == "" || p.RoomCode == "" || !p.VictoryCondition.Valid() || len(p.TurnOrder) == 0 {
		return GameState{}, ErrInvalidArguments
	}

	if p.Teams[0].TeamNumber != 1 || p.Teams[1].TeamNumber != 2 {
		return GameState{}, fmt.Errorf("teams must be numbered 1 and 2: %w", ErrInvalidArguments)
	}

	gs := GameState{
		GameID:           p.GameID,
		RoomID:           p.RoomID,
		RoomCode:         p.RoomCode,
		Status:           StatusActive,
		VictoryCondition: p.VictoryCondition,
		Teams:            p.Teams,
		TurnOrder:        p.TurnOrder,
		Membership:       p.Membership,
		CreatedAt:        s.now(),
	}
	gs = gs.Clone()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.games[p.GameID]; ok {
		return GameState{}, ErrAlreadyExists
	}

	if gameID, ok := s.codes[p.RoomCode]; ok {
		if prev, ok := s.games[gameID]; ok {
			prev.mtx.Lock()
			status := prev.state.Status
			prev.mtx.Unlock()
			if status != StatusFinished {
				return GameState{}, ErrRoomCodeInUse
			}
		}
	}

	s.games[p.GameID] = &entry{state: gs}
	s.codes[p.RoomCode] = p.GameID

	return gs.Clone(), nil
}

func (s *Store) entry(gameID string) (*entry, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	e, ok := s.games[gameID]
	return e, ok
}

func (s *Store) Get(gameID string) (GameState, bool) {
	e, ok := s.entry(gameID)
	if !ok {
		return GameState{}, false
	}

	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.removed {
		return GameState{}, false
	}

	return e.state.Clone(), true
}

func (s *Store) GetByRoomCode(roomCode string) (GameState, bool) {
	s.mtx.RLock()
	gameID, ok := s.codes[roomCode]
	s.mtx.RUnlock()
	if !ok {
		return GameState{}, false
	}

	return s.Get(gameID)
}

// Update applies fn to a copy of the current state and stores the copy as a whole when fn
// succeeds. fn runs under the game's lock and must not call back into the store. Identity
// fields and the turn order are immutable and restored after fn; a finished game rejects
// every update.
func (s *Store) Update(gameID string, fn func(gs *GameState) error) (GameState, error) {
	e, ok := s.entry(gameID)
	if !ok {
		return GameState{}, ErrNotFound
	}

	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.removed {
		return GameState{}, ErrNotFound
	}

	prev := e.state
	if prev.Status == StatusFinished {
		return prev.Clone(), ErrFinished
	}

	next := prev.Clone()
	if err := fn(&next); err != nil {
		return prev.Clone(), err
	}

	next.GameID = prev.GameID
	next.RoomID = prev.RoomID
	next.RoomCode = prev.RoomCode
	next.VictoryCondition = prev.VictoryCondition
	next.TurnOrder = prev.TurnOrder
	next.CreatedAt = prev.CreatedAt

	if err := validate(prev, next); err != nil {
		return prev.Clone(), err
	}

	if next.Status == StatusFinished && next.FinishedAt == nil {
		finishedAt := s.now()
		next.FinishedAt = &finishedAt
	}

	e.state = next
	return next.Clone(), nil
}

func validate(prev, next GameState) error {
	if next.CurrentRound < prev.CurrentRound {
		return fmt.Errorf("round went back from %d to %d: %w", prev.CurrentRound, next.CurrentRound, ErrInvalidState)
	}

	if t := next.CurrentTurn; t != nil && t.Category != "" && (t.WordID == "" || t.WordText == "") {
		return fmt.Errorf("category without word: %w", ErrInvalidState)
	}

	for i, team := range next.Teams {
		if team.Score < 0 {
			return fmt.Errorf("team %d negative score: %w", team.TeamNumber, ErrInvalidState)
		}

		if team.TeamID != prev.Teams[i].TeamID || team.TeamNumber != prev.Teams[i].TeamNumber {
			return fmt.Errorf("team identity changed: %w", ErrInvalidState)
		}

		if len(team.CategoriesCompleted) > category.Total {
			return fmt.Errorf("team %d has %d categories: %w", team.TeamNumber, len(team.CategoriesCompleted), ErrInvalidState)
		}

		seen := make(map[category.Category]struct{}, len(team.CategoriesCompleted))
		for _, c := range team.CategoriesCompleted {
			if _, dup := seen[c]; dup {
				return fmt.Errorf("team %d duplicate category %s: %w", team.TeamNumber, c, ErrInvalidState)
			}
			seen[c] = struct{}{}
		}
	}

	return nil
}

// Remove deletes a game. It is the only way a state leaves the store.
func (s *Store) Remove(gameID string) bool {
	s.mtx.Lock()
	e, ok := s.games[gameID]
	if !ok {
		s.mtx.Unlock()
		return false
	}

	delete(s.games, gameID)
	for code, id := range s.codes {
		if id == gameID {
			delete(s.codes, code)
		}
	}
	s.mtx.Unlock()

	e.mtx.Lock()
	e.removed = true
	e.mtx.Unlock()

	return true
}

// List returns copies of every stored game ordered by creation time.
func (s *Store) List() []GameState {
	s.mtx.RLock()
	entries := make([]*entry, 0, len(s.games))
	for _, e := range s.games {
		entries = append(entries, e)
	}
	s.mtx.RUnlock()

	games := make([]GameState, 0, len(entries))
	for _, e := range entries {
		e.mtx.Lock()
		if !e.removed {
			games = append(games, e.state.Clone())
		}
		e.mtx.Unlock()
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})

	return games
}

func (s *Store) ListActive() []GameState {
	var active []GameState
	for _, gs := range s.List() {
		if gs.Status == StatusActive {
			active = append(active, gs)
		}
	}

	return active
}
