package game

import (
	"context"
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/bloops-games/sketchy/internal/turn"
)

type Actor struct {
	UserID   string
	Username string
}

type RosterTeam struct {
	TeamID  string
	Number  int
	Players []turn.Player
}

// Roster is the team assignment of a room at the moment a game starts.
type Roster struct {
	RoomID           string
	RoomCode         string
	HostID           string
	VictoryCondition state.VictoryCondition
	ShuffleTurns     bool
	Teams            [2]RosterTeam
}

type Word struct {
	ID       string
	Category category.Category
	Text     string
}

// RosterProvider returns ErrRoomNotFound for unknown codes.
type RosterProvider interface {
	Roster(ctx context.Context, roomCode string) (Roster, error)
}

// WordProvider returns ErrNoWords when the category has no active word.
type WordProvider interface {
	RandomWordByCategory(ctx context.Context, c category.Category) (Word, error)
}

type Authorizer interface {
	IsHost(ctx context.Context, actorID, roomID string) (bool, error)
}

type Notifier interface {
	Broadcast(roomCode string, n Notification)
	Send(userID string, n Notification)
}

type RoundStatus string

const (
	RoundGuessed RoundStatus = "guessed"
	RoundTimeout RoundStatus = "timeout"
)

type RoundResult struct {
	GameID      string            `json:"gameId"`
	RoomCode    string            `json:"roomCode"`
	RoundNumber int               `json:"roundNumber"`
	DrawerID    string            `json:"drawerId"`
	GuesserID   string            `json:"guesserId"`
	TeamID      string            `json:"teamId"`
	WordID      string            `json:"wordId"`
	Category    category.Category `json:"category"`
	Status      RoundStatus       `json:"status"`
	TimeElapsed int               `json:"timeElapsed"`
	FinishedAt  time.Time         `json:"finishedAt"`
}

type TeamScore struct {
	TeamID              string              `json:"teamId"`
	TeamNumber          int                 `json:"teamNumber"`
	Score               int                 `json:"score"`
	CategoriesCompleted []category.Category `json:"categoriesCompleted"`
}

type Result struct {
	GameID           string                 `json:"gameId"`
	RoomID           string                 `json:"roomId"`
	RoomCode         string                 `json:"roomCode"`
	VictoryCondition state.VictoryCondition `json:"victoryCondition"`
	WinnerTeamID     string                 `json:"winnerTeamId"`
	Scores           []TeamScore            `json:"scores"`
	Rounds           int                    `json:"rounds"`
	StartedAt        time.Time              `json:"startedAt"`
	FinishedAt       time.Time              `json:"finishedAt"`
}

type ResultRecorder interface {
	RecordRound(ctx context.Context, r RoundResult) error
	RecordGame(ctx context.Context, r Result) error
}

// Deps are the collaborators of the manager. Results may be nil.
type Deps struct {
	Rosters  RosterProvider
	Words    WordProvider
	Auth     Authorizer
	Notifier Notifier
	Results  ResultRecorder
}

func scores(gs state.GameState) []TeamScore {
	s := make([]TeamScore, 0, len(gs.Teams))
	for _, t := range gs.Teams {
		s = append(s, TeamScore{
			TeamID:              t.TeamID,
			TeamNumber:          t.TeamNumber,
			Score:               t.Score,
			CategoriesCompleted: append([]category.Category{}, t.CategoriesCompleted...),
		})
	}

	return s
}
