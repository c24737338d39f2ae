package ws

import (
	"context"
	"net/http"
	"strings"

	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/logging"
	"github.com/gorilla/websocket"
)

const (
	paramRoomCode = "roomCode"
	paramUserID   = "userId"
	paramUsername = "username"
)

func upgrader(config *Config) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(config.AllowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range config.AllowedOrigins {
				if strings.EqualFold(strings.TrimSpace(allowed), origin) {
					return true
				}
			}
			return false
		},
	}
}

// Handler upgrades the request and binds the connection to one room and one user.
func Handler(ctx context.Context, hub *Hub, commander Commander, config *Config) http.HandlerFunc {
	logger := logging.FromContext(ctx).Named("ws.handler")
	up := upgrader(config)

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		roomCode := strings.ToUpper(strings.TrimSpace(query.Get(paramRoomCode)))
		actor := game.Actor{
			UserID:   strings.TrimSpace(query.Get(paramUserID)),
			Username: strings.TrimSpace(query.Get(paramUsername)),
		}

		if roomCode == "" || actor.UserID == "" {
			http.Error(w, "roomCode and userId are required", http.StatusBadRequest)
			return
		}

		if actor.Username == "" {
			actor.Username = actor.UserID
		}

		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorf("upgrade %s: %v", actor.UserID, err)
			return
		}

		c := newClient(hub, conn, commander, config, actor, roomCode, logger.With("user", actor.UserID, "room", roomCode))
		hub.Register(c)
		logger.Infof("user %s connected to room %s", actor.UserID, roomCode)

		go c.writePump()
		go c.readPump(ctx)
	}
}
