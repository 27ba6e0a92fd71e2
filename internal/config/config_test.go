package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.IntroTime)
	assert.Equal(t, 15*time.Second, cfg.QuestionTime)
	assert.Equal(t, 3*time.Second, cfg.ResultTime)
	assert.Equal(t, 5*time.Second, cfg.LeaderboardTime)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 10, cfg.QuestionCount)
	assert.Empty(t, cfg.PostgresDSN)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QUESTOOT_ADDR", ":9999")
	t.Setenv("QUESTOOT_QUESTION_TIME", "20s")
	t.Setenv("QUESTOOT_TICK_INTERVAL", "1s")
	t.Setenv("QUESTOOT_QUESTION_COUNT", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 20*time.Second, cfg.QuestionTime)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 3, cfg.QuestionCount)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"QUESTOOT_TICK_INTERVAL":  "0",
		"QUESTOOT_QUESTION_TIME":  "-5s",
		"QUESTOOT_QUESTION_COUNT": "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDurationsMapping(t *testing.T) {
	cfg := &Config{
		IntroTime:       time.Second,
		QuestionTime:    2 * time.Second,
		ResultTime:      3 * time.Second,
		LeaderboardTime: 4 * time.Second,
	}
	d := cfg.Durations()
	assert.Equal(t, time.Second, d.Intro)
	assert.Equal(t, 2*time.Second, d.Question)
	assert.Equal(t, 3*time.Second, d.Result)
	assert.Equal(t, 4*time.Second, d.Leaderboard)
}
