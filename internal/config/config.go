package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/TNRProtography/questoot/internal/engine"
)

type Config struct {
	Addr string

	IntroTime       time.Duration
	QuestionTime    time.Duration
	ResultTime      time.Duration
	LeaderboardTime time.Duration
	TickInterval    time.Duration

	QuestionURL     string
	QuestionCount   int
	QuestionTimeout time.Duration

	PostgresDSN string
	RoomIdleTTL time.Duration
}

// Load reads configuration from QUESTOOT_* environment variables, with
// defaults matching the reference game timings.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUESTOOT")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("intro_time", 3*time.Second)
	v.SetDefault("question_time", 15*time.Second)
	v.SetDefault("result_time", 3*time.Second)
	v.SetDefault("leaderboard_time", 5*time.Second)
	v.SetDefault("tick_interval", 250*time.Millisecond)
	v.SetDefault("question_url", "https://opentdb.example.com/api/questions")
	v.SetDefault("question_count", 10)
	v.SetDefault("question_timeout", 10*time.Second)
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("room_idle_ttl", 30*time.Minute)

	cfg := &Config{
		Addr:            v.GetString("addr"),
		IntroTime:       v.GetDuration("intro_time"),
		QuestionTime:    v.GetDuration("question_time"),
		ResultTime:      v.GetDuration("result_time"),
		LeaderboardTime: v.GetDuration("leaderboard_time"),
		TickInterval:    v.GetDuration("tick_interval"),
		QuestionURL:     v.GetString("question_url"),
		QuestionCount:   v.GetInt("question_count"),
		QuestionTimeout: v.GetDuration("question_timeout"),
		PostgresDSN:     v.GetString("postgres_dsn"),
		RoomIdleTTL:     v.GetDuration("room_idle_ttl"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.TickInterval)
	}
	if c.QuestionCount < 1 {
		return fmt.Errorf("question count must be at least 1, got %d", c.QuestionCount)
	}
	for name, d := range map[string]time.Duration{
		"intro_time":       c.IntroTime,
		"question_time":    c.QuestionTime,
		"result_time":      c.ResultTime,
		"leaderboard_time": c.LeaderboardTime,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	return nil
}

func (c *Config) Durations() engine.Durations {
	return engine.Durations{
		Intro:       c.IntroTime,
		Question:    c.QuestionTime,
		Result:      c.ResultTime,
		Leaderboard: c.LeaderboardTime,
	}
}
