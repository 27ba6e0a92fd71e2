package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TNRProtography/questoot/internal/engine"
)

var ErrEmptySet = errors.New("question source returned no questions")

// Source produces the question set for one game. Implementations may block
// on the network; callers invoke Fetch off the room loop.
type Source interface {
	Fetch(ctx context.Context, count int) ([]engine.Question, error)
}

// HTTPSource fetches questions from a trivia backend that returns a JSON
// array of {question, options, correctAnswerIndex} objects.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type wireQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

func (s *HTTPSource) Fetch(ctx context.Context, count int) ([]engine.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?amount=%d", s.url, count), nil)
	if err != nil {
		return nil, fmt.Errorf("build question request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question source status %d", resp.StatusCode)
	}

	var wire []wireQuestion
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	qs := make([]engine.Question, 0, len(wire))
	for i, w := range wire {
		q, err := validate(w)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		qs = append(qs, q)
	}
	if len(qs) == 0 {
		return nil, ErrEmptySet
	}
	return qs, nil
}

func validate(w wireQuestion) (engine.Question, error) {
	if w.Question == "" {
		return engine.Question{}, errors.New("empty question text")
	}
	if len(w.Options) != len(engine.Question{}.Options) {
		return engine.Question{}, fmt.Errorf("want 4 options, got %d", len(w.Options))
	}
	if w.CorrectAnswerIndex < 0 || w.CorrectAnswerIndex >= len(w.Options) {
		return engine.Question{}, fmt.Errorf("correct index %d out of range", w.CorrectAnswerIndex)
	}
	q := engine.Question{Question: w.Question, CorrectAnswerIndex: w.CorrectAnswerIndex}
	copy(q.Options[:], w.Options)
	return q, nil
}

// WithFallback wraps a source so a game can always proceed: any failure of
// the inner source is logged and answered with the built-in fallback set.
func WithFallback(inner Source, log *zap.Logger) Source {
	return &fallbackSource{inner: inner, log: log}
}

type fallbackSource struct {
	inner Source
	log   *zap.Logger
}

func (f *fallbackSource) Fetch(ctx context.Context, count int) ([]engine.Question, error) {
	qs, err := f.inner.Fetch(ctx, count)
	if err != nil {
		f.log.Warn("question source failed, using fallback set", zap.Error(err))
		return Fallback(), nil
	}
	return qs, nil
}
