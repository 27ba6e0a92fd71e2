package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TNRProtography/questoot/internal/hub"
	"github.com/TNRProtography/questoot/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/games", CreateGame(h))
	r.Get("/games/{code}", GetGame(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws/{code}", ws.Handler(h, log))
	return r
}
