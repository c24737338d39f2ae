package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/clock"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/bloops-games/sketchy/internal/turn"
)

var errStale = errors.New("stale event")

func playable(gs state.GameState) error {
	switch gs.Status {
	case state.StatusFinished:
		return ErrGameFinished
	case state.StatusPaused:
		return ErrGamePaused
	case state.StatusActive:
		return nil
	default:
		return ErrNoActiveGame
	}
}

func (s *session) current() (state.GameState, error) {
	gs, ok := s.store.Get(s.gameID)
	if !ok {
		return gs, ErrNoActiveGame
	}

	return gs, nil
}

func (s *session) begin() (state.GameState, error) {
	gs, err := s.current()
	if err != nil {
		return gs, err
	}

	s.broadcast(EventGameStarted, GameStartedPayload{
		GameID:           gs.GameID,
		VictoryCondition: gs.VictoryCondition,
		Teams:            gs.Teams,
		TotalTurns:       len(gs.TurnOrder),
		Timestamp:        timestamp(),
	})
	s.schedule(s.config.StartDelay, contAdvance)
	s.logger.Infof("game %s started in room %s, %d turns in rotation", gs.GameID, s.roomCode, len(gs.TurnOrder))

	return gs, nil
}

func (s *session) advance() {
	gs, err := s.store.Update(s.gameID, func(gs *state.GameState) error {
		if gs.Status != state.StatusActive {
			return errStale
		}

		idx := -1
		if t := gs.CurrentTurn; t != nil {
			idx = turn.IndexFrom(t.OrderIndex, t.Drawer.UserID, t.Guesser.UserID, gs.TurnOrder)
		}

		next, err := turn.Next(idx, gs.TurnOrder)
		if err != nil {
			return fmt.Errorf("next turn: %w", err)
		}

		gs.CurrentRound++
		gs.CurrentTurn = &state.TurnState{
			RoundNumber:   gs.CurrentRound,
			OrderIndex:    turn.NextIndex(idx, len(gs.TurnOrder)),
			Phase:         state.PhaseAwaitingCategory,
			Drawer:        next.Drawer(),
			Guesser:       next.Guesser(),
			TimeRemaining: s.config.TurnSeconds,
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, errStale) {
			s.logger.Errorf("advance turn of game %s: %v", s.gameID, err)
		}
		return
	}

	s.bump()
	s.rolling = false

	t := gs.CurrentTurn
	s.broadcast(EventTurnStarted, TurnStartedPayload{
		RoundNumber:   t.RoundNumber,
		Drawer:        t.Drawer,
		Guesser:       t.Guesser,
		TimeRemaining: t.TimeRemaining,
		Timestamp:     timestamp(),
	})
	s.logger.Infof("turn %d started in game %s: %s draws, %s guesses",
		t.RoundNumber, s.gameID, t.Drawer.Username, t.Guesser.Username)
}

func (s *session) rollDice(actor Actor) error {
	gs, err := s.current()
	if err != nil {
		return err
	}

	if err := playable(gs); err != nil {
		return err
	}

	t := gs.CurrentTurn
	if t == nil || t.Phase == state.PhaseResolved {
		return ErrNoActiveTurn
	}

	if t.Drawer.UserID != actor.UserID {
		return ErrNotDrawer
	}

	if t.HasWord() || t.Phase != state.PhaseAwaitingCategory {
		return ErrCategoryAlreadySelected
	}

	if s.rolling {
		return ErrRollInProgress
	}

	s.rolling = true
	s.broadcast(EventDiceRolling, DiceRollingPayload{
		Duration:  s.config.RollDelay.Milliseconds(),
		Timestamp: timestamp(),
	})
	s.schedule(s.config.RollDelay, contReveal)

	return nil
}

func (s *session) reveal() {
	s.rolling = false

	gs, err := s.current()
	if err != nil || gs.Status != state.StatusActive || gs.CurrentTurn == nil ||
		gs.CurrentTurn.Phase != state.PhaseAwaitingCategory {
		return
	}

	c := category.Roll()
	ctx, cancel := context.WithTimeout(s.ctx, s.config.CommandTimeout)
	word, err := s.deps.Words.RandomWordByCategory(ctx, c)
	cancel()
	if err != nil {
		if errors.Is(err, ErrNoWords) {
			s.logger.Warnf("no words for category %s in game %s", c, s.gameID)
			s.broadcast(EventError, ErrorPayload{Message: renderNoWords(c)})
			return
		}

		s.logger.Errorf("random word by category %s: %v", c, err)
		s.broadcast(EventError, ErrorPayload{Message: "word selection failed, roll again"})
		return
	}

	now := time.Now()
	gs, err = s.store.Update(s.gameID, func(gs *state.GameState) error {
		t := gs.CurrentTurn
		if gs.Status != state.StatusActive || t == nil || t.Phase != state.PhaseAwaitingCategory {
			return errStale
		}

		t.Category = c
		t.WordID = word.ID
		t.WordText = word.Text
		t.StartedAt = &now
		t.Phase = state.PhaseAwaitingGuess
		t.TimeRemaining = s.config.TurnSeconds

		return nil
	})
	if err != nil {
		if !errors.Is(err, errStale) {
			s.logger.Errorf("assign word in game %s: %v", s.gameID, err)
		}
		return
	}

	s.bump()

	t := gs.CurrentTurn
	s.broadcast(EventDiceRolled, DiceRolledPayload{Category: c, Timestamp: timestamp()})
	s.send(t.Drawer.UserID, EventWordAssigned, WordAssignedPayload{
		Word:      t.WordText,
		Category:  c,
		Timestamp: timestamp(),
	})
	s.startClock(t.TimeRemaining)
	s.logger.Infof("dice rolled in game %s: %s", s.gameID, c)
}

func (s *session) tick(t clock.Tick) {
	_, err := s.store.Update(s.gameID, func(gs *state.GameState) error {
		if gs.Status != state.StatusActive || gs.CurrentTurn == nil || gs.CurrentTurn.Phase != state.PhaseAwaitingGuess {
			return errStale
		}
		gs.CurrentTurn.TimeRemaining = t.Remaining
		return nil
	})
	if err != nil {
		return
	}

	s.broadcast(EventTimerTick, TimerTickPayload{TimeRemaining: t.Remaining, Timestamp: timestamp()})
}

func (s *session) expire(_ clock.Tick) {
	s.clocks.Stop(s.gameID)

	var resolved state.TurnState
	gs, err := s.store.Update(s.gameID, func(gs *state.GameState) error {
		t := gs.CurrentTurn
		if gs.Status != state.StatusActive || t == nil || t.Phase != state.PhaseAwaitingGuess {
			return errStale
		}

		t.Phase = state.PhaseResolved
		t.TimeRemaining = 0
		resolved = *t

		return nil
	})
	if err != nil {
		if !errors.Is(err, errStale) {
			s.logger.Errorf("turn timeout in game %s: %v", s.gameID, err)
		}
		return
	}

	s.bump()
	s.broadcast(EventTurnTimeout, TurnTimeoutPayload{
		Word:      resolved.WordText,
		Category:  resolved.Category,
		Drawer:    resolved.Drawer,
		Guesser:   resolved.Guesser,
		Message:   renderTimeout(resolved.WordText),
		Timestamp: timestamp(),
	})
	s.recordRound(gs, resolved, RoundTimeout, s.config.TurnSeconds)
	s.schedule(s.config.NextTurnDelay, contAdvance)
	s.logger.Infof("turn %d timed out in game %s", resolved.RoundNumber, s.gameID)
}

func (s *session) markGuessed(actor Actor) error {
	gs, err := s.current()
	if err != nil {
		return err
	}

	if err := playable(gs); err != nil {
		return err
	}

	if !gs.TurnActive() {
		return ErrNoActiveTurn
	}

	if gs.CurrentTurn.Guesser.UserID != actor.UserID {
		return ErrNotGuesser
	}

	if gs.CurrentTurn.Phase != state.PhaseAwaitingGuess {
		return ErrWordNotAssigned
	}

	var (
		resolved state.TurnState
		scored   state.TeamState
		elapsed  int
	)
	gs, err = s.store.Update(s.gameID, func(gs *state.GameState) error {
		t := gs.CurrentTurn
		team := gs.TeamOf(actor.UserID)
		if team == nil {
			return fmt.Errorf("guesser %s has no team: %w", actor.UserID, state.ErrInvalidState)
		}

		elapsed = s.config.TurnSeconds - t.TimeRemaining
		if elapsed < 0 {
			elapsed = 0
		}

		team.Score++
		team.AddCategory(t.Category)
		t.Phase = state.PhaseResolved
		resolved = *t
		scored = *team

		if winner, ok := evaluateVictory(*gs); ok {
			gs.Status = state.StatusFinished
			gs.WinnerTeamID = winner.TeamID
			gs.CurrentTurn = nil
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("mark guessed: %w", err)
	}

	s.clocks.Stop(s.gameID)
	s.bump()

	s.broadcast(EventWordGuessed, WordGuessedPayload{
		GuesserID:       actor.UserID,
		GuesserUsername: resolved.Guesser.Username,
		Word:            resolved.WordText,
		Category:        resolved.Category,
		TimeElapsed:     elapsed,
		TeamID:          scored.TeamID,
		TeamNumber:      scored.TeamNumber,
		NewScore:        scored.Score,
		Timestamp:       timestamp(),
	})
	s.recordRound(gs, resolved, RoundGuessed, elapsed)
	s.logger.Infof("word guessed in game %s by %s, team %d has %d points",
		s.gameID, resolved.Guesser.Username, scored.TeamNumber, scored.Score)

	if gs.Status == state.StatusFinished {
		s.finish(gs)
		return nil
	}

	s.schedule(s.config.NextTurnDelay, contAdvance)

	return nil
}

func (s *session) finish(gs state.GameState) {
	s.clocks.Stop(s.gameID)
	s.bump()
	s.rolling = false

	var winnerNumber int
	if team := gs.Team(gs.WinnerTeamID); team != nil {
		winnerNumber = team.TeamNumber
	}

	s.broadcast(EventGameOver, GameOverPayload{
		WinnerTeamID:     gs.WinnerTeamID,
		WinnerTeamNumber: winnerNumber,
		FinalScores:      scores(gs),
		TotalRounds:      gs.CurrentRound,
		Message:          renderGameOver(winnerNumber),
		Timestamp:        timestamp(),
	})
	s.recordGame(gs)
	s.logger.Infof("game %s finished, winner team %d after %d rounds", s.gameID, winnerNumber, gs.CurrentRound)
}

func (s *session) disconnect(actor Actor) error {
	gs, ok := s.store.Get(s.gameID)
	if !ok || !gs.TurnActive() {
		return nil
	}

	role, ok := gs.CurrentTurn.Role(actor.UserID)
	if !ok {
		return nil
	}

	username := gs.CurrentTurn.Drawer.Username
	if role == state.RoleGuesser {
		username = gs.CurrentTurn.Guesser.Username
	}

	switch gs.Status {
	case state.StatusActive:
		remaining, running := s.clocks.Pause(s.gameID)
		if !running {
			remaining = gs.CurrentTurn.TimeRemaining
		}

		_, err := s.store.Update(s.gameID, func(gs *state.GameState) error {
			gs.Status = state.StatusPaused
			gs.AwaitingRejoin = []string{actor.UserID}
			gs.CurrentTurn.TimeRemaining = remaining
			return nil
		})
		if err != nil {
			if running {
				s.resumeClock(remaining)
			}
			return fmt.Errorf("pause game: %w", err)
		}

		s.bump()
		s.rolling = false
	case state.StatusPaused:
		if gs.IsAwaiting(actor.UserID) {
			return nil
		}

		_, err := s.store.Update(s.gameID, func(gs *state.GameState) error {
			gs.AwaitingRejoin = append(gs.AwaitingRejoin, actor.UserID)
			return nil
		})
		if err != nil {
			return fmt.Errorf("await rejoin: %w", err)
		}
	default:
		return nil
	}

	s.broadcast(EventGamePaused, GamePausedPayload{
		Reason:               reasonPlayerDisconnected,
		DisconnectedUserID:   actor.UserID,
		DisconnectedUsername: username,
		DisconnectedRole:     role,
		Message:              renderPaused(username, role),
		Timestamp:            timestamp(),
	})
	s.logger.Infof("game %s paused, %s %s disconnected", s.gameID, role, username)

	return nil
}

func (s *session) rejoin(actor Actor) (state.GameState, error) {
	gs, err := s.current()
	if err != nil {
		return gs, err
	}

	s.send(actor.UserID, EventGameStateSync, syncPayload(gs, actor.UserID))

	if gs.Status != state.StatusPaused || !gs.IsAwaiting(actor.UserID) {
		return gs, nil
	}

	gs, err = s.store.Update(s.gameID, func(gs *state.GameState) error {
		awaiting := gs.AwaitingRejoin[:0]
		for _, id := range gs.AwaitingRejoin {
			if id != actor.UserID {
				awaiting = append(awaiting, id)
			}
		}
		gs.AwaitingRejoin = awaiting

		if len(gs.AwaitingRejoin) == 0 {
			gs.Status = state.StatusActive
		}

		return nil
	})
	if err != nil {
		return gs, fmt.Errorf("rejoin: %w", err)
	}

	t := gs.CurrentTurn
	if t == nil {
		return gs, fmt.Errorf("paused game without turn: %w", state.ErrInvalidState)
	}

	role, _ := t.Role(actor.UserID)
	s.broadcast(EventPlayerReconnected, PlayerReconnectedPayload{
		UserID:    actor.UserID,
		Username:  actor.Username,
		Role:      role,
		Timestamp: timestamp(),
	})

	if gs.Status != state.StatusActive {
		return gs, nil
	}

	s.bump()
	s.broadcast(EventGameResumed, GameResumedPayload{TimeRemaining: t.TimeRemaining, Timestamp: timestamp()})
	if t.HasWord() && t.Phase == state.PhaseAwaitingGuess {
		s.resumeClock(t.TimeRemaining)
	}
	s.logger.Infof("game %s resumed with %d seconds left", s.gameID, t.TimeRemaining)

	return gs, nil
}

func (s *session) recordRound(gs state.GameState, t state.TurnState, status RoundStatus, elapsed int) {
	if s.deps.Results == nil {
		return
	}

	r := RoundResult{
		GameID:      gs.GameID,
		RoomCode:    gs.RoomCode,
		RoundNumber: t.RoundNumber,
		DrawerID:    t.Drawer.UserID,
		GuesserID:   t.Guesser.UserID,
		TeamID:      gs.Membership[t.Drawer.UserID],
		WordID:      t.WordID,
		Category:    t.Category,
		Status:      status,
		TimeElapsed: elapsed,
		FinishedAt:  time.Now(),
	}
	s.record("round", func(ctx context.Context) error {
		return s.deps.Results.RecordRound(ctx, r)
	})
}

func (s *session) recordGame(gs state.GameState) {
	if s.deps.Results == nil {
		return
	}

	r := Result{
		GameID:           gs.GameID,
		RoomID:           gs.RoomID,
		RoomCode:         gs.RoomCode,
		VictoryCondition: gs.VictoryCondition,
		WinnerTeamID:     gs.WinnerTeamID,
		Scores:           scores(gs),
		Rounds:           gs.CurrentRound,
		StartedAt:        gs.CreatedAt,
	}
	if gs.FinishedAt != nil {
		r.FinishedAt = *gs.FinishedAt
	}

	s.record("game", func(ctx context.Context) error {
		return s.deps.Results.RecordGame(ctx, r)
	})
}
