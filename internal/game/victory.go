package game

import (
	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/state"
)

// evaluateVictory returns the first team, in team number order, that meets the victory condition.
func evaluateVictory(gs state.GameState) (state.TeamState, bool) {
	teams := gs.Teams
	if teams[0].TeamNumber > teams[1].TeamNumber {
		teams[0], teams[1] = teams[1], teams[0]
	}

	for _, team := range teams {
		if hasWon(gs.VictoryCondition, team) {
			return team, true
		}
	}

	return state.TeamState{}, false
}

func hasWon(condition state.VictoryCondition, team state.TeamState) bool {
	switch condition {
	case state.FirstTo3:
		return team.Score >= 3
	case state.FirstTo5:
		return team.Score >= 5
	case state.AllCategories:
		return len(team.CategoriesCompleted) >= category.Total
	default:
		return false
	}
}
