package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/logging"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StateReader exposes the live game of a room.
type StateReader interface {
	State(roomCode string) (state.GameState, bool)
}

func HandleHealth(ctx context.Context) http.Handler {
	logger := logging.FromContext(ctx).Named("server.health")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status": "ok"}`)); err != nil {
			logger.Errorf("write health response: %v", err)
		}
	})
}

// HandleGame returns the public view of a room's game: the word is never included.
func HandleGame(ctx context.Context, games StateReader) http.Handler {
	logger := logging.FromContext(ctx).Named("server.game")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gs, ok := games.State(chi.URLParam(r, "roomCode"))
		if !ok {
			http.Error(w, game.ErrNoActiveGame.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(game.PublicState(gs)); err != nil {
			logger.Errorf("encode game %s: %v", gs.GameID, err)
		}
	})
}

// Router mounts the health check, the read-only game endpoint and the websocket endpoint.
func Router(ctx context.Context, games StateReader, ws http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/health", HandleHealth(ctx))
	r.Method(http.MethodGet, "/games/{roomCode}", HandleGame(ctx, games))
	r.Method(http.MethodGet, "/ws", ws)

	return r
}
