package questions

import (
	"slices"

	"github.com/TNRProtography/questoot/internal/engine"
)

var fallbackSet = []engine.Question{
	{
		Question:           "What is the largest planet in our solar system?",
		Options:            [4]string{"Earth", "Saturn", "Jupiter", "Neptune"},
		CorrectAnswerIndex: 2,
	},
	{
		Question:           "Which element has the chemical symbol 'O'?",
		Options:            [4]string{"Gold", "Oxygen", "Osmium", "Iron"},
		CorrectAnswerIndex: 1,
	},
	{
		Question:           "How many continents are there on Earth?",
		Options:            [4]string{"Five", "Six", "Seven", "Eight"},
		CorrectAnswerIndex: 2,
	},
	{
		Question:           "What is the capital city of New Zealand?",
		Options:            [4]string{"Auckland", "Wellington", "Christchurch", "Hamilton"},
		CorrectAnswerIndex: 1,
	},
	{
		Question:           "Which ocean is the largest?",
		Options:            [4]string{"Atlantic", "Indian", "Arctic", "Pacific"},
		CorrectAnswerIndex: 3,
	},
}

// Fallback returns a copy of the built-in question set used when the
// external source is unavailable.
func Fallback() []engine.Question {
	return slices.Clone(fallbackSet)
}
