package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bloops-games/sketchy/internal/clock"
	"github.com/bloops-games/sketchy/internal/logging"
	"github.com/bloops-games/sketchy/internal/state"
	"go.uber.org/zap"
)

type msg interface{ isSessionMsg() }

type cmdKind uint8

const (
	cmdBegin cmdKind = iota + 1
	cmdRoll
	cmdGuess
	cmdRejoin
	cmdDisconnect
)

type reply struct {
	gs  state.GameState
	err error
}

type command struct {
	kind  cmdKind
	actor Actor
	reply chan reply
}

func (command) isSessionMsg() {}

type contKind uint8

const (
	contAdvance contKind = iota + 1
	contReveal
)

// continuation is delayed work scheduled by the session itself.
type continuation struct {
	epoch uint64
	kind  contKind
}

func (continuation) isSessionMsg() {}

type clockTick struct{ tick clock.Tick }

func (clockTick) isSessionMsg() {}

type clockExpired struct{ tick clock.Tick }

func (clockExpired) isSessionMsg() {}

type recordFn func(name string, fn func(ctx context.Context) error)

type sessionConfig struct {
	gameID   string
	roomCode string
	config   *Config
	store    *state.Store
	clocks   *clock.Clocks
	deps     Deps
	record   recordFn
}

func newSession(ctx context.Context, sc sessionConfig) *session {
	ctx, cancel := context.WithCancel(ctx)
	return &session{
		gameID:   sc.gameID,
		roomCode: sc.roomCode,
		config:   sc.config,
		store:    sc.store,
		clocks:   sc.clocks,
		deps:     sc.deps,
		record:   sc.record,
		logger:   logging.FromContext(ctx).Named("game.session"),
		inbox:    make(chan msg, sc.config.InboxSize),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// session serializes every event of one game on a single goroutine.
type session struct {
	gameID   string
	roomCode string
	config   *Config
	store    *state.Store
	clocks   *clock.Clocks
	deps     Deps
	record   recordFn
	logger   *zap.SugaredLogger

	inbox  chan msg
	ctx    context.Context
	cancel func()
	done   chan struct{}
	once   sync.Once

	// owned by the loop goroutine
	epoch   uint64
	timers  []*time.Timer
	rolling bool
}

func (s *session) Run() {
	s.once.Do(func() {
		go s.loop()
	})
}

func (s *session) Stop() {
	s.cancel()
	<-s.done
}

func (s *session) loop() {
	defer close(s.done)
	defer s.shutdown()

	for {
		select {
		case <-s.ctx.Done():
			return
		case m := <-s.inbox:
			s.handle(m)
		}
	}
}

func (s *session) shutdown() {
	s.bump()
	s.clocks.Stop(s.gameID)
}

func (s *session) handle(m msg) {
	switch m := m.(type) {
	case command:
		gs, err := s.execute(m)
		m.reply <- reply{gs: gs, err: err}
	case continuation:
		if m.epoch != s.epoch {
			return
		}
		switch m.kind {
		case contAdvance:
			s.advance()
		case contReveal:
			s.reveal()
		}
	case clockTick:
		if !s.clocks.Current(s.gameID, m.tick.Epoch) {
			return
		}
		s.tick(m.tick)
	case clockExpired:
		if !s.clocks.Current(s.gameID, m.tick.Epoch) {
			return
		}
		s.expire(m.tick)
	}
}

func (s *session) execute(c command) (state.GameState, error) {
	switch c.kind {
	case cmdBegin:
		return s.begin()
	case cmdRoll:
		return state.GameState{}, s.rollDice(c.actor)
	case cmdGuess:
		return state.GameState{}, s.markGuessed(c.actor)
	case cmdRejoin:
		return s.rejoin(c.actor)
	case cmdDisconnect:
		return state.GameState{}, s.disconnect(c.actor)
	default:
		return state.GameState{}, fmt.Errorf("unknown command %d", c.kind)
	}
}

func (s *session) post(m msg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *session) call(ctx context.Context, kind cmdKind, actor Actor) (state.GameState, error) {
	c := command{kind: kind, actor: actor, reply: make(chan reply, 1)}
	select {
	case s.inbox <- c:
	case <-s.ctx.Done():
		return state.GameState{}, ErrManagerStopped
	case <-ctx.Done():
		return state.GameState{}, ctx.Err()
	}

	select {
	case r := <-c.reply:
		return r.gs, r.err
	case <-s.done:
		return state.GameState{}, ErrManagerStopped
	case <-ctx.Done():
		return state.GameState{}, ctx.Err()
	}
}

// bump invalidates every continuation scheduled so far.
func (s *session) bump() {
	s.epoch++
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = s.timers[:0]
}

func (s *session) schedule(delay time.Duration, kind contKind) {
	epoch := s.epoch
	t := time.AfterFunc(delay, func() {
		s.post(continuation{epoch: epoch, kind: kind})
	})
	s.timers = append(s.timers, t)
}

func (s *session) startClock(seconds int) {
	s.clocks.Start(s.gameID, seconds, s.onTick, s.onExpire)
}

func (s *session) resumeClock(seconds int) {
	s.clocks.Resume(s.gameID, seconds, s.onTick, s.onExpire)
}

func (s *session) onTick(t clock.Tick) {
	s.post(clockTick{tick: t})
}

func (s *session) onExpire(t clock.Tick) {
	s.post(clockExpired{tick: t})
}

func (s *session) broadcast(event Event, payload interface{}) {
	s.deps.Notifier.Broadcast(s.roomCode, Notification{Event: event, Payload: payload})
}

func (s *session) send(userID string, event Event, payload interface{}) {
	s.deps.Notifier.Send(userID, Notification{Event: event, Payload: payload})
}
