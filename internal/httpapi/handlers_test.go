package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/TNRProtography/questoot/internal/engine"
	"github.com/TNRProtography/questoot/internal/hub"
	"github.com/TNRProtography/questoot/internal/questions"
	"github.com/TNRProtography/questoot/internal/room"
	"github.com/TNRProtography/questoot/internal/store"
)

type fallbackOnly struct{}

func (fallbackOnly) Fetch(context.Context, int) ([]engine.Question, error) {
	return questions.Fallback(), nil
}

func testHub(t *testing.T) *hub.Hub {
	t.Helper()
	return hub.New(context.Background(), room.Options{
		Store:         store.NewMemory(),
		Source:        fallbackOnly{},
		Durations:     engine.DefaultDurations(),
		TickInterval:  50 * time.Millisecond,
		QuestionCount: 5,
		Logger:        zaptest.NewLogger(t),
	})
}

func TestGenerateCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{4}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("want 4 uppercase letters, got %q", code)
		}
	}
}

func TestCreateGameReturnsCode(t *testing.T) {
	h := testHub(t)
	srv := httptest.NewServer(SetupRoutes(h, zaptest.NewLogger(t)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/games", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !regexp.MustCompile(`^[A-Z]{4}$`).MatchString(body.Code) {
		t.Fatalf("bad code %q", body.Code)
	}

	// The code is immediately addressable.
	snap, err := http.Get(srv.URL + "/games/" + body.Code)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer snap.Body.Close()
	if snap.StatusCode != http.StatusOK {
		t.Fatalf("want 200 for created game, got %d", snap.StatusCode)
	}

	var state engine.State
	if err := json.NewDecoder(snap.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.GameCode != body.Code || state.GamePhase != engine.PhaseLobby {
		t.Fatalf("unexpected initial state: %+v", state)
	}
}

func TestGetGameUnknownCode(t *testing.T) {
	h := testHub(t)
	srv := httptest.NewServer(SetupRoutes(h, zaptest.NewLogger(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/games/ZZZZ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	h := testHub(t)
	srv := httptest.NewServer(SetupRoutes(h, zaptest.NewLogger(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
}
