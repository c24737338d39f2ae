package game

import "errors"

// validation
var (
	ErrNotDrawer  = errors.New("only the current drawer can do this")
	ErrNotGuesser = errors.New("only the current guesser can do this")
	ErrNotHost    = errors.New("only the host can start the game")
)

// precondition
var (
	ErrNoActiveGame            = errors.New("no active game in this room")
	ErrNoActiveTurn            = errors.New("no active turn")
	ErrCategoryAlreadySelected = errors.New("category already selected")
	ErrRollInProgress          = errors.New("dice roll in progress")
	ErrWordNotAssigned         = errors.New("word is not assigned yet")
	ErrInsufficientRoster      = errors.New("each team needs at least 2 players")
	ErrGamePaused              = errors.New("game is paused")
	ErrGameFinished            = errors.New("game is finished")
	ErrGameAlreadyStarted      = errors.New("game already started")
)

// resource
var ErrNoWords = errors.New("no words available")

// not found
var ErrRoomNotFound = errors.New("room not found")

var ErrManagerStopped = errors.New("game manager stopped")
