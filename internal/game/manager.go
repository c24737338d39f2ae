// Package game runs the turn lifecycle of every game: one session goroutine per game serializes
// commands, clock events and delayed continuations against the state store.
package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bloops-games/sketchy/internal/clock"
	"github.com/bloops-games/sketchy/internal/logging"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/bloops-games/sketchy/internal/turn"
	"github.com/google/uuid"
)

const recordTimeout = 10 * time.Second

func NewManager(ctx context.Context, config *Config, store *state.Store, clocks *clock.Clocks, deps Deps) *Manager {
	ctx, cancel := context.WithCancel(ctx)
	return &Manager{
		ctx:      ctx,
		cancel:   cancel,
		config:   config,
		store:    store,
		clocks:   clocks,
		deps:     deps,
		sessions: map[string]*session{},
	}
}

type Manager struct {
	mtx sync.RWMutex

	ctx    context.Context
	cancel func()
	config *Config
	store  *state.Store
	clocks *clock.Clocks
	deps   Deps
	// key: gameId
	sessions map[string]*session
	records  sync.WaitGroup
	stopped  bool
}

// Run cleans finished games until ctx is done, then stops every session.
func (m *Manager) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("game.manager")
	ticker := time.NewTicker(m.config.CleaningInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Infof("stopping game sessions")
			m.Stop()
			return nil
		case <-m.ctx.Done():
			m.Stop()
			return nil
		case now := <-ticker.C:
			if n := m.clean(now); n > 0 {
				logger.Infof("removed %d finished games", n)
			}
		}
	}
}

func (m *Manager) Stop() {
	m.mtx.Lock()
	if m.stopped {
		m.mtx.Unlock()
		return
	}
	m.stopped = true
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = map[string]*session{}
	m.mtx.Unlock()

	m.cancel()
	for _, s := range sessions {
		s.Stop()
	}
	m.clocks.StopAll()
	m.records.Wait()
}

// clean removes games finished longer than FinishedTTL ago.
func (m *Manager) clean(now time.Time) int {
	removed := 0
	for _, gs := range m.store.List() {
		if gs.Status != state.StatusFinished || gs.FinishedAt == nil || now.Sub(*gs.FinishedAt) < m.config.FinishedTTL {
			continue
		}

		m.mtx.Lock()
		s, ok := m.sessions[gs.GameID]
		delete(m.sessions, gs.GameID)
		m.mtx.Unlock()

		if ok {
			s.Stop()
		}

		if m.store.Remove(gs.GameID) {
			removed++
		}
	}

	return removed
}

func (m *Manager) record(name string, fn func(ctx context.Context) error) {
	m.records.Add(1)
	go func() {
		defer m.records.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logging.FromContext(m.ctx).Named("game.manager").Errorf("record %s result: %v", name, err)
		}
	}()
}

func (m *Manager) StartGame(ctx context.Context, actor Actor, roomCode string) (state.GameState, error) {
	if gs, ok := m.store.GetByRoomCode(roomCode); ok && gs.Status != state.StatusFinished {
		return state.GameState{}, ErrGameAlreadyStarted
	}

	roster, err := m.deps.Rosters.Roster(ctx, roomCode)
	if err != nil {
		return state.GameState{}, fmt.Errorf("roster: %w", err)
	}

	isHost, err := m.deps.Auth.IsHost(ctx, actor.UserID, roster.RoomID)
	if err != nil {
		return state.GameState{}, fmt.Errorf("is host: %w", err)
	}

	if !isHost {
		return state.GameState{}, ErrNotHost
	}

	params, err := m.params(roster, roomCode)
	if err != nil {
		return state.GameState{}, err
	}

	if _, err := m.store.Initialize(params); err != nil {
		if errors.Is(err, state.ErrRoomCodeInUse) {
			return state.GameState{}, ErrGameAlreadyStarted
		}
		return state.GameState{}, fmt.Errorf("initialize game: %w", err)
	}

	s := newSession(m.ctx, sessionConfig{
		gameID:   params.GameID,
		roomCode: roomCode,
		config:   m.config,
		store:    m.store,
		clocks:   m.clocks,
		deps:     m.deps,
		record:   m.record,
	})

	m.mtx.Lock()
	if m.stopped {
		m.mtx.Unlock()
		m.store.Remove(params.GameID)
		return state.GameState{}, ErrManagerStopped
	}
	m.sessions[params.GameID] = s
	m.mtx.Unlock()

	s.Run()

	return s.call(ctx, cmdBegin, actor)
}

func (m *Manager) params(roster Roster, roomCode string) (state.Params, error) {
	teams := roster.Teams
	sort.Slice(teams[:], func(i, j int) bool {
		return teams[i].Number < teams[j].Number
	})

	if len(teams[0].Players) < turn.MinTeamSize || len(teams[1].Players) < turn.MinTeamSize {
		return state.Params{}, ErrInsufficientRoster
	}

	generate := turn.GenerateOrder
	if roster.ShuffleTurns {
		generate = turn.GenerateShuffledOrder
	}

	order, err := generate(teams[0].Players, teams[1].Players)
	if err != nil {
		return state.Params{}, fmt.Errorf("generate order: %v: %w", err, ErrInsufficientRoster)
	}

	membership := map[string]string{}
	for _, team := range teams {
		for _, p := range team.Players {
			membership[p.UserID] = team.TeamID
		}
	}

	victory := roster.VictoryCondition
	if victory == "" {
		victory = state.FirstTo3
	}

	return state.Params{
		GameID:           uuid.NewString(),
		RoomID:           roster.RoomID,
		RoomCode:         roomCode,
		VictoryCondition: victory,
		Teams: [2]state.TeamState{
			{TeamID: teams[0].TeamID, TeamNumber: 1},
			{TeamID: teams[1].TeamID, TeamNumber: 2},
		},
		TurnOrder:  order,
		Membership: membership,
	}, nil
}

func (m *Manager) session(roomCode string) (*session, error) {
	gs, ok := m.store.GetByRoomCode(roomCode)
	if !ok {
		return nil, ErrNoActiveGame
	}

	m.mtx.RLock()
	defer m.mtx.RUnlock()

	s, ok := m.sessions[gs.GameID]
	if !ok {
		return nil, ErrNoActiveGame
	}

	return s, nil
}

func (m *Manager) dispatch(ctx context.Context, kind cmdKind, actor Actor, roomCode string) (state.GameState, error) {
	s, err := m.session(roomCode)
	if err != nil {
		return state.GameState{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.CommandTimeout)
	defer cancel()

	return s.call(ctx, kind, actor)
}

func (m *Manager) RollDice(ctx context.Context, actor Actor, roomCode string) error {
	_, err := m.dispatch(ctx, cmdRoll, actor, roomCode)
	return err
}

func (m *Manager) MarkGuessed(ctx context.Context, actor Actor, roomCode string) error {
	_, err := m.dispatch(ctx, cmdGuess, actor, roomCode)
	return err
}

// Rejoin sends the game state to the actor and resumes the game once every awaited player is back.
func (m *Manager) Rejoin(ctx context.Context, actor Actor, roomCode string) (state.GameState, error) {
	return m.dispatch(ctx, cmdRejoin, actor, roomCode)
}

// Disconnect pauses the game when the actor is the drawer or guesser of the running turn.
func (m *Manager) Disconnect(ctx context.Context, actor Actor, roomCode string) error {
	_, err := m.dispatch(ctx, cmdDisconnect, actor, roomCode)
	if errors.Is(err, ErrNoActiveGame) {
		return nil
	}

	return err
}

func (m *Manager) State(roomCode string) (state.GameState, bool) {
	return m.store.GetByRoomCode(roomCode)
}
