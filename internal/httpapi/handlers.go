package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TNRProtography/questoot/internal/hub"
	"github.com/TNRProtography/questoot/internal/room"
)

// GenerateCode produces a random 4-letter game code.
func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	code := make([]byte, 4)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateGame allocates an unused code, creates its room and returns the
// code for clients to share.
func CreateGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *room.Room, 1)
			h.Inbox() <- hub.GetRoom{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: code, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

// GetGame serves the current snapshot over plain HTTP, for host refresh and
// reconnect flows that don't hold a socket yet.
func GetGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		view := make(chan room.View, 1)
		rm.Inbox() <- room.GetState{Reply: view}

		// The room may have evicted itself between the registry lookup and
		// this request; never wait on a loop that is gone.
		select {
		case v := <-view:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(v.State)
		case <-rm.Done():
			http.Error(w, "game not found", http.StatusNotFound)
		case <-r.Context().Done():
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
