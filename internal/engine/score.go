package engine

import (
	"math"
	"slices"
	"time"
)

// Score awards points for one question and returns the updated player list.
// Correct answers earn round(1000 * (1 - timeTaken/(2*questionTime))): an
// instant answer is worth 1000, one taken at the full question time ~500.
// The gain is floored at zero so a tick that fires late can never shrink a
// score. Players without an answer keep their score and get their transient
// result fields cleared.
func Score(q Question, answers []PlayerAnswer, players []Player, questionTime time.Duration) []Player {
	byName := make(map[string]PlayerAnswer, len(answers))
	for _, a := range answers {
		byName[a.PlayerName] = a
	}

	updated := slices.Clone(players)
	for i, p := range updated {
		a, answered := byName[p.Name]
		if !answered {
			updated[i].LastAnswerCorrect = false
			updated[i].LastScoreGained = 0
			continue
		}

		correct := a.AnswerIndex == q.CorrectAnswerIndex
		gained := 0
		if correct {
			gained = gain(a.TimeTaken, questionTime)
		}
		updated[i].LastAnswerCorrect = correct
		updated[i].LastScoreGained = gained
		updated[i].Score += gained
	}
	return updated
}

func gain(timeTaken float64, questionTime time.Duration) int {
	g := int(math.Round(1000 * (1 - timeTaken/(2*questionTime.Seconds()))))
	return max(g, 0)
}
