package engine

import (
	"errors"
	"maps"
	"slices"
	"time"
)

var ErrWrongPhase = errors.New("event not valid in current phase")
var ErrDuplicateName = errors.New("player name already taken")
var ErrDuplicateAnswer = errors.New("player already answered this question")
var ErrUnknownPlayer = errors.New("player not in game")
var ErrNoQuestions = errors.New("question set is empty")
var ErrNotExpired = errors.New("current phase has not expired")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	// HOME and JOIN_SETUP exist only on clients before they connect; a
	// room's state never carries them.
	PhaseHome             Phase = "HOME"
	PhaseJoinSetup        Phase = "JOIN_SETUP"
	PhaseLobby            Phase = "LOBBY"
	PhaseLoadingQuestions Phase = "LOADING_QUESTIONS"
	PhaseQuestionIntro    Phase = "QUESTION_INTRO"
	PhaseQuestionActive   Phase = "QUESTION_ACTIVE"
	PhaseQuestionResult   Phase = "QUESTION_RESULT"
	PhaseLeaderboard      Phase = "LEADERBOARD"
	PhaseFinalResult      Phase = "FINAL_RESULT"
)

type Player struct {
	Name              string `json:"name"`
	Score             int    `json:"score"`
	IsBot             bool   `json:"isBot"`
	LastAnswerCorrect bool   `json:"lastAnswerCorrect"`
	LastScoreGained   int    `json:"lastScoreGained"`
}

type Question struct {
	Question           string    `json:"question"`
	Options            [4]string `json:"options"`
	CorrectAnswerIndex int       `json:"correctAnswerIndex"`
}

type PlayerAnswer struct {
	PlayerName  string  `json:"playerName"`
	AnswerIndex int     `json:"answerIndex"`
	TimeTaken   float64 `json:"timeTaken"` // seconds since the question went active
}

// State is the full snapshot of one game. The owning room mutates it only
// through Apply, which is copy-on-write: any slice or map reachable from a
// State already handed out in a snapshot is never written again.
type State struct {
	GameCode             string                 `json:"gameCode"`
	GamePhase            Phase                  `json:"gamePhase"`
	Players              []Player               `json:"players"`
	Questions            []Question             `json:"questions"`
	CurrentQuestionIndex int                    `json:"currentQuestionIndex"`
	PhaseStartTime       time.Time              `json:"phaseStartTime"`
	Answers              map[int][]PlayerAnswer `json:"answers"`
}

func NewState(code string, now time.Time) State {
	return State{
		GameCode:       code,
		GamePhase:      PhaseLobby,
		Players:        []Player{},
		Questions:      []Question{},
		PhaseStartTime: now.UTC(),
		Answers:        map[int][]PlayerAnswer{},
	}
}

type CommandType string

const (
	CmdJoin            CommandType = "Join"
	CmdAnswer          CommandType = "Answer"
	CmdStartLoading    CommandType = "StartLoading"
	CmdQuestionsLoaded CommandType = "QuestionsLoaded"
	CmdLoadFailed      CommandType = "LoadFailed"
	CmdTick            CommandType = "Tick"
)

type Command struct {
	Type        CommandType
	Name        string
	AnswerIndex int
	Questions   []Question // CmdQuestionsLoaded only
}

// Apply runs one command against the state and returns the successor state.
// On error the input state is returned unchanged; rejections ("silent"
// failures like a duplicate join) are reported as errors so the caller can
// decide whether to persist and broadcast.
func Apply(s State, cmd Command, d Durations, now time.Time) (State, error) {
	ns := s

	switch cmd.Type {
	case CmdJoin:
		for _, p := range s.Players {
			if p.Name == cmd.Name {
				return s, ErrDuplicateName
			}
		}
		ns.Players = append(slices.Clone(s.Players), Player{Name: cmd.Name})
		return ns, nil

	case CmdAnswer:
		if s.GamePhase != PhaseQuestionActive {
			return s, ErrWrongPhase
		}
		if !slices.ContainsFunc(s.Players, func(p Player) bool { return p.Name == cmd.Name }) {
			return s, ErrUnknownPlayer
		}
		idx := s.CurrentQuestionIndex
		for _, a := range s.Answers[idx] {
			if a.PlayerName == cmd.Name {
				return s, ErrDuplicateAnswer
			}
		}
		taken := max(Elapsed(now, s.PhaseStartTime), 0).Seconds()
		answers := maps.Clone(s.Answers)
		answers[idx] = append(slices.Clone(s.Answers[idx]), PlayerAnswer{
			PlayerName:  cmd.Name,
			AnswerIndex: cmd.AnswerIndex,
			TimeTaken:   taken,
		})
		ns.Answers = answers
		return ns, nil

	case CmdStartLoading:
		if s.GamePhase != PhaseLobby {
			return s, ErrWrongPhase
		}
		ns.GamePhase = PhaseLoadingQuestions
		ns.PhaseStartTime = now.UTC()
		return ns, nil

	case CmdQuestionsLoaded:
		if s.GamePhase != PhaseLoadingQuestions {
			return s, ErrWrongPhase
		}
		if len(cmd.Questions) == 0 {
			return s, ErrNoQuestions
		}
		ns.Questions = slices.Clone(cmd.Questions)
		ns.CurrentQuestionIndex = 0
		ns.Answers = map[int][]PlayerAnswer{}
		ns.GamePhase = PhaseQuestionIntro
		ns.PhaseStartTime = now.UTC()
		return ns, nil

	case CmdLoadFailed:
		if s.GamePhase != PhaseLoadingQuestions {
			return s, ErrWrongPhase
		}
		ns.GamePhase = PhaseLobby
		ns.PhaseStartTime = now.UTC()
		return ns, nil

	case CmdTick:
		if !d.Expired(s.GamePhase, Elapsed(now, s.PhaseStartTime)) {
			return s, ErrNotExpired
		}
		return advance(s, d, now), nil

	default:
		return s, ErrUnsupportedCommand
	}
}

// advance performs the exit action of an expired timed phase and enters the
// next one. Callers must have checked expiry already.
func advance(s State, d Durations, now time.Time) State {
	ns := s
	switch s.GamePhase {
	case PhaseQuestionIntro:
		ns.GamePhase = PhaseQuestionActive

	case PhaseQuestionActive:
		q := s.Questions[s.CurrentQuestionIndex]
		ns.Players = Score(q, s.Answers[s.CurrentQuestionIndex], s.Players, d.Question)
		ns.GamePhase = PhaseQuestionResult

	case PhaseQuestionResult:
		ns.GamePhase = PhaseLeaderboard

	case PhaseLeaderboard:
		if s.CurrentQuestionIndex < len(s.Questions)-1 {
			ns.CurrentQuestionIndex = s.CurrentQuestionIndex + 1
			ns.GamePhase = PhaseQuestionIntro
		} else {
			ns.GamePhase = PhaseFinalResult
		}
	}
	ns.PhaseStartTime = now.UTC()
	return ns
}
