package types

// Snapshot (the whole game state, serialized as JSON):
//   gameCode: string // 4 uppercase letters
//   gamePhase: "LOBBY" | "LOADING_QUESTIONS" | "QUESTION_INTRO" |
//              "QUESTION_ACTIVE" | "QUESTION_RESULT" | "LEADERBOARD" |
//              "FINAL_RESULT"
//   players: [ { name, score, isBot, lastAnswerCorrect, lastScoreGained } ]
//   questions: [ { question, options: [string;4], correctAnswerIndex } ]
//   currentQuestionIndex: number
//   phaseStartTime: RFC 3339 timestamp // anchor for the phase countdown
//   answers: { [questionIndex]: [ { playerName, answerIndex, timeTaken } ] }
