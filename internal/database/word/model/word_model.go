package model

import (
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/google/uuid"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

type Word struct {
	ID         string            `json:"id"`
	Category   category.Category `json:"category"`
	Text       string            `json:"text"`
	Difficulty Difficulty        `json:"difficulty"`
	Active     bool              `json:"active"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func NewWord(c category.Category, text string, difficulty Difficulty) Word {
	return Word{
		ID:         uuid.NewString(),
		Category:   c,
		Text:       text,
		Difficulty: difficulty,
		Active:     true,
		CreatedAt:  time.Now(),
	}
}
