// Package clock runs one countdown per game.
package clock

import (
	"sync"
	"time"
)

// Epoch identifies a single run of a game clock. Every Start or Resume gets a new one.
type Epoch uint64

type Tick struct {
	GameID    string
	Epoch     Epoch
	Remaining int
}

type TickFunc func(Tick)

type ExpireFunc func(Tick)

type timer struct {
	epoch     Epoch
	remaining int
	expired   bool
	stopCh    chan struct{}
}

func (t *timer) stop() {
	close(t.stopCh)
}

func New(interval time.Duration) *Clocks {
	if interval <= 0 {
		interval = time.Second
	}

	return &Clocks{
		interval: interval,
		timers:   map[string]*timer{},
	}
}

// Clocks holds at most one running countdown per game.
type Clocks struct {
	mtx sync.Mutex

	interval time.Duration
	// key: gameId
	timers map[string]*timer
	epoch  Epoch
}

// Start stops the running clock of the game, if any, and counts down from seconds. onTick gets
// the value after every decrement, onExpire is called once right after the tick that reaches 0.
func (c *Clocks) Start(gameID string, seconds int, onTick TickFunc, onExpire ExpireFunc) Epoch {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if t, ok := c.timers[gameID]; ok {
		t.stop()
		delete(c.timers, gameID)
	}

	c.epoch++
	t := &timer{
		epoch:     c.epoch,
		remaining: seconds,
		stopCh:    make(chan struct{}),
	}
	c.timers[gameID] = t

	go c.run(gameID, t, onTick, onExpire)

	return t.epoch
}

// Resume continues a paused countdown from seconds.
func (c *Clocks) Resume(gameID string, seconds int, onTick TickFunc, onExpire ExpireFunc) Epoch {
	return c.Start(gameID, seconds, onTick, onExpire)
}

func (c *Clocks) run(gameID string, t *timer, onTick TickFunc, onExpire ExpireFunc) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			c.mtx.Lock()
			if current, ok := c.timers[gameID]; !ok || current != t || t.expired {
				c.mtx.Unlock()
				return
			}

			t.remaining--
			if t.remaining <= 0 {
				t.remaining = 0
				t.expired = true
			}
			tick := Tick{GameID: gameID, Epoch: t.epoch, Remaining: t.remaining}
			expired := t.expired
			c.mtx.Unlock()

			if onTick != nil {
				onTick(tick)
			}

			if expired {
				if onExpire != nil {
					onExpire(tick)
				}
				return
			}
		}
	}
}

// Stop is idempotent. An expired clock stays registered until Stop so its final callbacks
// still pass Current.
func (c *Clocks) Stop(gameID string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if t, ok := c.timers[gameID]; ok {
		t.stop()
		delete(c.timers, gameID)
	}
}

// Pause stops the clock and returns the seconds it had left.
func (c *Clocks) Pause(gameID string) (int, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	t, ok := c.timers[gameID]
	if !ok {
		return 0, false
	}

	t.stop()
	delete(c.timers, gameID)

	return t.remaining, true
}

// Current reports whether epoch is the clock currently registered for the game.
func (c *Clocks) Current(gameID string, epoch Epoch) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	t, ok := c.timers[gameID]
	return ok && t.epoch == epoch
}

func (c *Clocks) Remaining(gameID string) (int, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	t, ok := c.timers[gameID]
	if !ok {
		return 0, false
	}

	return t.remaining, true
}

func (c *Clocks) Running() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.expired {
			n++
		}
	}

	return n
}

func (c *Clocks) StopAll() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for gameID, t := range c.timers {
		t.stop()
		delete(c.timers, gameID)
	}
}
