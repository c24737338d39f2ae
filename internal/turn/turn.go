// Package turn computes the cyclic drawer/guesser rotation of a two-team game.
package turn

import (
	"errors"

	"github.com/valyala/fastrand"
)

const MinTeamSize = 2

var (
	ErrInvalidRoster = errors.New("each team must have at least 2 players")
	ErrEmptyOrder    = errors.New("turn order is empty")
)

type Player struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Turn is one immutable entry of the rotation. Drawer and guesser are always teammates.
type Turn struct {
	DrawerID        string `json:"drawerId"`
	DrawerUsername  string `json:"drawerUsername"`
	GuesserID       string `json:"guesserId"`
	GuesserUsername string `json:"guesserUsername"`
}

func (t Turn) Drawer() Player {
	return Player{UserID: t.DrawerID, Username: t.DrawerUsername}
}

func (t Turn) Guesser() Player {
	return Player{UserID: t.GuesserID, Username: t.GuesserUsername}
}

// GenerateOrder alternates team 1 and team 2 turns. For every round r the drawer of a team is
// player r mod size and the guesser is player (r+1) mod size, so every player draws and guesses.
// The order has 2*max(len(team1), len(team2)) entries.
func GenerateOrder(team1, team2 []Player) ([]Turn, error) {
	if len(team1) < MinTeamSize || len(team2) < MinTeamSize {
		return nil, ErrInvalidRoster
	}

	rounds := len(team1)
	if len(team2) > rounds {
		rounds = len(team2)
	}

	turns := make([]Turn, 0, 2*rounds)
	for round := 0; round < rounds; round++ {
		turns = append(turns, pair(team1, round), pair(team2, round))
	}

	return turns, nil
}

// GenerateShuffledOrder shuffles each roster before generating the order.
func GenerateShuffledOrder(team1, team2 []Player) ([]Turn, error) {
	return GenerateOrder(shuffle(team1), shuffle(team2))
}

func pair(team []Player, round int) Turn {
	drawer := team[round%len(team)]
	guesser := team[(round+1)%len(team)]

	return Turn{
		DrawerID:        drawer.UserID,
		DrawerUsername:  drawer.Username,
		GuesserID:       guesser.UserID,
		GuesserUsername: guesser.Username,
	}
}

func shuffle(players []Player) []Player {
	shuffled := make([]Player, len(players))
	copy(shuffled, players)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Next returns the turn following currentIndex, wrapping around. -1 yields the first turn.
func Next(currentIndex int, order []Turn) (Turn, error) {
	if len(order) == 0 {
		return Turn{}, ErrEmptyOrder
	}

	return order[NextIndex(currentIndex, len(order))], nil
}

func NextIndex(currentIndex, length int) int {
	return ((currentIndex+1)%length + length) % length
}

// Index finds the first turn with exactly this drawer and guesser, or -1.
func Index(drawerID, guesserID string, order []Turn) int {
	return IndexFrom(0, drawerID, guesserID, order)
}

// IndexFrom is Index scanning cyclically from start. Uneven team sizes repeat pairs inside the
// order, and scanning from the last known position keeps the rotation from skipping entries.
func IndexFrom(start int, drawerID, guesserID string, order []Turn) int {
	if len(order) == 0 {
		return -1
	}

	if start < 0 || start >= len(order) {
		start = 0
	}

	for i := 0; i < len(order); i++ {
		idx := (start + i) % len(order)
		if order[idx].DrawerID == drawerID && order[idx].GuesserID == guesserID {
			return idx
		}
	}

	return -1
}
