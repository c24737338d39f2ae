package game

import (
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/bloops-games/sketchy/internal/turn"
)

type Event string

const (
	EventGameStarted       Event = "game_started"
	EventTurnStarted       Event = "turn_started"
	EventDiceRolling       Event = "dice_rolling"
	EventDiceRolled        Event = "dice_rolled"
	EventWordAssigned      Event = "word_assigned"
	EventTimerTick         Event = "timer_tick"
	EventTurnTimeout       Event = "turn_timeout"
	EventWordGuessed       Event = "word_guessed"
	EventGamePaused        Event = "game_paused"
	EventPlayerReconnected Event = "player_reconnected"
	EventGameResumed       Event = "game_resumed"
	EventGameStateSync     Event = "game_state_sync"
	EventGameOver          Event = "game_over"
	EventError             Event = "error"
)

type Notification struct {
	Event   Event       `json:"event"`
	Payload interface{} `json:"data"`
}

func timestamp() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

type GameStartedPayload struct {
	GameID           string                 `json:"gameId"`
	VictoryCondition state.VictoryCondition `json:"victoryCondition"`
	Teams            [2]state.TeamState     `json:"teams"`
	TotalTurns       int                    `json:"totalTurns"`
	Timestamp        int64                  `json:"timestamp"`
}

type TurnStartedPayload struct {
	RoundNumber   int         `json:"roundNumber"`
	Drawer        turn.Player `json:"drawer"`
	Guesser       turn.Player `json:"guesser"`
	TimeRemaining int         `json:"timeRemaining"`
	Timestamp     int64       `json:"timestamp"`
}

type DiceRollingPayload struct {
	// milliseconds
	Duration  int64 `json:"duration"`
	Timestamp int64 `json:"timestamp"`
}

type DiceRolledPayload struct {
	Category  category.Category `json:"category"`
	Timestamp int64             `json:"timestamp"`
}

type WordAssignedPayload struct {
	Word      string            `json:"word"`
	Category  category.Category `json:"category"`
	Timestamp int64             `json:"timestamp"`
}

type TimerTickPayload struct {
	TimeRemaining int   `json:"timeRemaining"`
	Timestamp     int64 `json:"timestamp"`
}

type TurnTimeoutPayload struct {
	Word      string            `json:"word"`
	Category  category.Category `json:"category"`
	Drawer    turn.Player       `json:"drawer"`
	Guesser   turn.Player       `json:"guesser"`
	Message   string            `json:"message"`
	Timestamp int64             `json:"timestamp"`
}

type WordGuessedPayload struct {
	GuesserID       string            `json:"guesserId"`
	GuesserUsername string            `json:"guesserUsername"`
	Word            string            `json:"word"`
	Category        category.Category `json:"category"`
	TimeElapsed     int               `json:"timeElapsed"`
	TeamID          string            `json:"teamId"`
	TeamNumber      int               `json:"teamNumber"`
	NewScore        int               `json:"newScore"`
	Timestamp       int64             `json:"timestamp"`
}

type GamePausedPayload struct {
	Reason               string `json:"reason"`
	DisconnectedUserID   string `json:"disconnectedUserId"`
	DisconnectedUsername string `json:"disconnectedUsername"`
	DisconnectedRole     string `json:"disconnectedRole"`
	Message              string `json:"message"`
	Timestamp            int64  `json:"timestamp"`
}

type PlayerReconnectedPayload struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Timestamp int64  `json:"timestamp"`
}

type GameResumedPayload struct {
	TimeRemaining int   `json:"timeRemaining"`
	Timestamp     int64 `json:"timestamp"`
}

type GameStateSyncPayload struct {
	GameID           string                 `json:"gameId"`
	Status           state.Status           `json:"status"`
	CurrentRound     int                    `json:"currentRound"`
	VictoryCondition state.VictoryCondition `json:"victoryCondition"`
	Teams            [2]state.TeamState     `json:"teams"`
	CurrentTurn      *state.TurnState       `json:"currentTurn"`
	AwaitingRejoin   []string               `json:"awaitingRejoin,omitempty"`
	WinnerTeamID     string                 `json:"winnerTeamId,omitempty"`
	Timestamp        int64                  `json:"timestamp"`
}

type GameOverPayload struct {
	WinnerTeamID     string      `json:"winnerTeamId"`
	WinnerTeamNumber int         `json:"winnerTeamNumber"`
	FinalScores      []TeamScore `json:"finalScores"`
	TotalRounds      int         `json:"totalRounds"`
	Message          string      `json:"message"`
	Timestamp        int64       `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const reasonPlayerDisconnected = "player_disconnected"

// syncPayload hides the word from everyone but the drawer of the current turn.
func syncPayload(gs state.GameState, userID string) GameStateSyncPayload {
	p := GameStateSyncPayload{
		GameID:           gs.GameID,
		Status:           gs.Status,
		CurrentRound:     gs.CurrentRound,
		VictoryCondition: gs.VictoryCondition,
		Teams:            gs.Teams,
		CurrentTurn:      gs.CurrentTurn,
		AwaitingRejoin:   gs.AwaitingRejoin,
		WinnerTeamID:     gs.WinnerTeamID,
		Timestamp:        timestamp(),
	}

	if t := gs.CurrentTurn; t != nil && t.Drawer.UserID != userID && t.Phase != state.PhaseResolved {
		redacted := *t
		redacted.WordID = ""
		redacted.WordText = ""
		p.CurrentTurn = &redacted
	}

	return p
}

// PublicState is the game as seen by a spectator.
func PublicState(gs state.GameState) GameStateSyncPayload {
	return syncPayload(gs, "")
}
