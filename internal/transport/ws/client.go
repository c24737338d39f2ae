package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	EventStartGame   = "start_game"
	EventRollDice    = "roll_dice"
	EventMarkGuessed = "mark_guessed"
	EventRejoinGame  = "rejoin_game"
	EventAck         = "ack"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrRateLimited  = errors.New("too many commands")
	ErrBadMessage   = errors.New("malformed message")
)

// Commander is the game side of the connection.
type Commander interface {
	StartGame(ctx context.Context, actor game.Actor, roomCode string) (state.GameState, error)
	RollDice(ctx context.Context, actor game.Actor, roomCode string) error
	MarkGuessed(ctx context.Context, actor game.Actor, roomCode string) error
	Rejoin(ctx context.Context, actor game.Actor, roomCode string) (state.GameState, error)
	Disconnect(ctx context.Context, actor game.Actor, roomCode string) error
}

type inbound struct {
	ID    string `json:"id"`
	Event string `json:"event"`
}

type Ack struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	commander Commander
	config    *Config
	actor     game.Actor
	roomCode  string
	limiter   *rate.Limiter
	logger    *zap.SugaredLogger

	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, commander Commander, config *Config, actor game.Actor, roomCode string, logger *zap.SugaredLogger) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		commander: commander,
		config:    config,
		actor:     actor,
		roomCode:  roomCode,
		limiter:   rate.NewLimiter(rate.Limit(config.CommandRate), config.CommandBurst),
		logger:    logger,
		send:      make(chan []byte, config.SendBuffer),
		done:      make(chan struct{}),
	}
}

// deliver never blocks; a client that cannot keep up is dropped.
func (c *Client) deliver(bytes []byte) {
	select {
	case c.send <- bytes:
	case <-c.done:
	default:
		c.logger.Warnf("dropping slow client %s in room %s", c.actor.UserID, c.roomCode)
		c.close()
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.close()
		if c.hub.Unregister(c) {
			return
		}
		if err := c.commander.Disconnect(context.Background(), c.actor, c.roomCode); err != nil {
			c.logger.Errorf("disconnect %s from %s: %v", c.actor.UserID, c.roomCode, err)
		}
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debugf("read %s: %v", c.actor.UserID, err)
			}
			return
		}

		c.reply(c.handle(ctx, data))
	}
}

func (c *Client) handle(ctx context.Context, data []byte) Ack {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Ack{Message: ErrBadMessage.Error()}
	}

	ack := Ack{ID: in.ID, Event: in.Event}
	if !c.limiter.Allow() {
		ack.Message = ErrRateLimited.Error()
		return ack
	}

	var err error
	switch in.Event {
	case EventStartGame:
		_, err = c.commander.StartGame(ctx, c.actor, c.roomCode)
	case EventRollDice:
		err = c.commander.RollDice(ctx, c.actor, c.roomCode)
	case EventMarkGuessed:
		err = c.commander.MarkGuessed(ctx, c.actor, c.roomCode)
	case EventRejoinGame:
		_, err = c.commander.Rejoin(ctx, c.actor, c.roomCode)
	default:
		err = ErrUnknownEvent
	}

	if err != nil {
		ack.Message = err.Error()
		return ack
	}

	ack.Success = true
	return ack
}

func (c *Client) reply(ack Ack) {
	bytes, err := json.Marshal(game.Notification{Event: EventAck, Payload: ack})
	if err != nil {
		c.logger.Errorf("marshal ack: %v", err)
		return
	}

	c.deliver(bytes)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case bytes := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, bytes); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
