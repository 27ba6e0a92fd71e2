package engine

import (
	"testing"
	"time"
)

func TestDurationsFor(t *testing.T) {
	d := DefaultDurations()

	timed := map[Phase]time.Duration{
		PhaseQuestionIntro:  3 * time.Second,
		PhaseQuestionActive: 15 * time.Second,
		PhaseQuestionResult: 3 * time.Second,
		PhaseLeaderboard:    5 * time.Second,
	}
	for phase, want := range timed {
		got, ok := d.For(phase)
		if !ok || got != want {
			t.Fatalf("phase %v: want %v, got %v (timed=%v)", phase, want, got, ok)
		}
	}

	for _, phase := range []Phase{PhaseLobby, PhaseLoadingQuestions, PhaseFinalResult, PhaseHome, PhaseJoinSetup} {
		if _, ok := d.For(phase); ok {
			t.Fatalf("phase %v should not be timed", phase)
		}
	}
}

func TestExpiredAtBoundary(t *testing.T) {
	d := DefaultDurations()

	if d.Expired(PhaseQuestionActive, 15*time.Second-time.Nanosecond) {
		t.Fatal("expired just before the boundary")
	}
	if !d.Expired(PhaseQuestionActive, 15*time.Second) {
		t.Fatal("not expired exactly at the boundary")
	}
	if !d.Expired(PhaseQuestionActive, time.Hour) {
		t.Fatal("not expired long after the boundary")
	}
}

func TestElapsedIsAnchorDerived(t *testing.T) {
	start := time.Now()
	if got := Elapsed(start.Add(4*time.Second), start); got != 4*time.Second {
		t.Fatalf("want 4s, got %v", got)
	}
}
