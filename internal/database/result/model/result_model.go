package model

import (
	"time"

	"github.com/bloops-games/sketchy/internal/game"
)

type Round struct {
	ID string `json:"id"`
	game.RoundResult
}

type Game struct {
	ID string `json:"id"`
	game.Result
}

// Duration is how long the game ran.
func (g Game) Duration() time.Duration {
	if g.FinishedAt.IsZero() || g.StartedAt.IsZero() {
		return 0
	}

	return g.FinishedAt.Sub(g.StartedAt)
}
