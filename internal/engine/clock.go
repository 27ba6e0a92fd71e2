package engine

import "time"

// Durations holds how long each timed phase lasts. LOBBY,
// LOADING_QUESTIONS and FINAL_RESULT never expire on their own.
type Durations struct {
	Intro       time.Duration
	Question    time.Duration
	Result      time.Duration
	Leaderboard time.Duration
}

func DefaultDurations() Durations {
	return Durations{
		Intro:       3 * time.Second,
		Question:    15 * time.Second,
		Result:      3 * time.Second,
		Leaderboard: 5 * time.Second,
	}
}

// For returns the duration of a timed phase, or false for phases that only
// leave via an explicit event.
func (d Durations) For(p Phase) (time.Duration, bool) {
	switch p {
	case PhaseQuestionIntro:
		return d.Intro, true
	case PhaseQuestionActive:
		return d.Question, true
	case PhaseQuestionResult:
		return d.Result, true
	case PhaseLeaderboard:
		return d.Leaderboard, true
	default:
		return 0, false
	}
}

func (d Durations) Expired(p Phase, elapsed time.Duration) bool {
	limit, timed := d.For(p)
	return timed && elapsed >= limit
}

// Elapsed is the phase clock: time spent in the current phase is always
// derived from the anchor timestamp, never from a stored countdown, so a
// late tick still lands on the right phase boundary.
func Elapsed(now, phaseStart time.Time) time.Duration {
	return now.Sub(phaseStart)
}
