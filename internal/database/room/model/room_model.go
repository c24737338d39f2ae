package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastrand"
)

const (
	CodeLength   = 6
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewCode returns a random room code without look-alike characters.
func NewCode() string {
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = codeAlphabet[fastrand.Uint32n(uint32(len(codeAlphabet)))]
	}

	return string(code)
}

type Player struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type Team struct {
	ID      string   `json:"id"`
	Number  int      `json:"number"`
	Players []Player `json:"players"`
}

func (t Team) Has(userID string) bool {
	for _, p := range t.Players {
		if p.UserID == userID {
			return true
		}
	}

	return false
}

type Room struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	HostID           string    `json:"hostId"`
	VictoryCondition string    `json:"victoryCondition"`
	ShuffleTurns     bool      `json:"shuffleTurns"`
	Teams            [2]Team   `json:"teams"`
	CreatedAt        time.Time `json:"createdAt"`
}

func NewRoom(code, hostID, victoryCondition string) Room {
	return Room{
		ID:               uuid.NewString(),
		Code:             code,
		HostID:           hostID,
		VictoryCondition: victoryCondition,
		Teams: [2]Team{
			{ID: uuid.NewString(), Number: 1},
			{ID: uuid.NewString(), Number: 2},
		},
		CreatedAt: time.Now(),
	}
}
