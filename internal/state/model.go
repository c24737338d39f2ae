package state

import (
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/turn"
)

type Status string

const (
	StatusLobby    Status = "lobby"
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

type VictoryCondition string

const (
	FirstTo3      VictoryCondition = "first_to_3"
	FirstTo5      VictoryCondition = "first_to_5"
	AllCategories VictoryCondition = "all_categories"
)

func (v VictoryCondition) Valid() bool {
	switch v {
	case FirstTo3, FirstTo5, AllCategories:
		return true
	default:
		return false
	}
}

// TurnPhase tracks a single turn: NotStarted -> AwaitingCategory -> AwaitingGuess -> Resolved.
type TurnPhase string

const (
	PhaseNotStarted       TurnPhase = "not_started"
	PhaseAwaitingCategory TurnPhase = "awaiting_category"
	PhaseAwaitingGuess    TurnPhase = "awaiting_guess"
	PhaseResolved         TurnPhase = "resolved"
)

type TeamState struct {
	TeamID              string              `json:"teamId"`
	TeamNumber          int                 `json:"teamNumber"`
	Score               int                 `json:"score"`
	CategoriesCompleted []category.Category `json:"categoriesCompleted"`
}

func (t TeamState) HasCategory(c category.Category) bool {
	for _, completed := range t.CategoriesCompleted {
		if completed == c {
			return true
		}
	}

	return false
}

// AddCategory records c as completed, reporting whether the set changed.
func (t *TeamState) AddCategory(c category.Category) bool {
	if !c.Valid() || t.HasCategory(c) {
		return false
	}

	t.CategoriesCompleted = append(t.CategoriesCompleted, c)
	return true
}

type TurnState struct {
	RoundNumber   int               `json:"roundNumber"`
	OrderIndex    int               `json:"orderIndex"`
	Phase         TurnPhase         `json:"phase"`
	Drawer        turn.Player       `json:"drawer"`
	Guesser       turn.Player       `json:"guesser"`
	Category      category.Category `json:"category,omitempty"`
	WordID        string            `json:"wordId,omitempty"`
	WordText      string            `json:"wordText,omitempty"`
	StartedAt     *time.Time        `json:"startedAt,omitempty"`
	TimeRemaining int               `json:"timeRemaining"`
}

func (t TurnState) HasWord() bool {
	return t.Category != ""
}

// Role returns "drawer" or "guesser" when userID plays in this turn.
func (t TurnState) Role(userID string) (string, bool) {
	switch userID {
	case t.Drawer.UserID:
		return RoleDrawer, true
	case t.Guesser.UserID:
		return RoleGuesser, true
	default:
		return "", false
	}
}

const (
	RoleDrawer  = "drawer"
	RoleGuesser = "guesser"
)

type GameState struct {
	GameID           string           `json:"gameId"`
	RoomID           string           `json:"roomId"`
	RoomCode         string           `json:"roomCode"`
	Status           Status           `json:"status"`
	CurrentRound     int              `json:"currentRound"`
	VictoryCondition VictoryCondition `json:"victoryCondition"`
	Teams            [2]TeamState     `json:"teams"`
	CurrentTurn      *TurnState       `json:"currentTurn"`
	TurnOrder        []turn.Turn      `json:"turnOrder"`
	WinnerTeamID     string           `json:"winnerTeamId,omitempty"`

	// key: userId, value: teamId
	Membership map[string]string `json:"membership"`
	// participants of the current turn the game is paused for
	AwaitingRejoin []string `json:"awaitingRejoin,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

func (g *GameState) Team(teamID string) *TeamState {
	for i := range g.Teams {
		if g.Teams[i].TeamID == teamID {
			return &g.Teams[i]
		}
	}

	return nil
}

// TeamOf resolves the team of a player through the membership map.
func (g *GameState) TeamOf(userID string) *TeamState {
	teamID, ok := g.Membership[userID]
	if !ok {
		return nil
	}

	return g.Team(teamID)
}

func (g *GameState) IsAwaiting(userID string) bool {
	for _, id := range g.AwaitingRejoin {
		if id == userID {
			return true
		}
	}

	return false
}

// TurnActive reports whether a turn is running and still waiting for a category or a guess.
func (g *GameState) TurnActive() bool {
	return g.CurrentTurn != nil && g.CurrentTurn.Phase != PhaseResolved
}

// Clone deep copies the state so callers never share nested values with the store.
func (g GameState) Clone() GameState {
	c := g
	for i := range c.Teams {
		c.Teams[i].CategoriesCompleted = append([]category.Category(nil), g.Teams[i].CategoriesCompleted...)
	}

	if g.CurrentTurn != nil {
		t := *g.CurrentTurn
		if g.CurrentTurn.StartedAt != nil {
			startedAt := *g.CurrentTurn.StartedAt
			t.StartedAt = &startedAt
		}
		c.CurrentTurn = &t
	}

	c.TurnOrder = append([]turn.Turn(nil), g.TurnOrder...)
	c.AwaitingRejoin = append([]string(nil), g.AwaitingRejoin...)

	if g.Membership != nil {
		c.Membership = make(map[string]string, len(g.Membership))
		for userID, teamID := range g.Membership {
			c.Membership[userID] = teamID
		}
	}

	if g.FinishedAt != nil {
		finishedAt := *g.FinishedAt
		c.FinishedAt = &finishedAt
	}

	return c
}
