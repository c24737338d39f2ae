package clock

import (
	"testing"
	"time"
)

const interval = 5 * time.Millisecond

type recorder struct {
	ticks   chan Tick
	expires chan Tick
}

func newRecorder() *recorder {
	return &recorder{ticks: make(chan Tick, 128), expires: make(chan Tick, 8)}
}

func (r *recorder) onTick(t Tick)   { r.ticks <- t }
func (r *recorder) onExpire(t Tick) { r.expires <- t }

func recvTick(t *testing.T, ch <-chan Tick, within time.Duration) Tick {
	t.Helper()
	select {
	case tick := <-ch:
		return tick
	case <-time.After(within):
		t.Fatalf("no tick within %s", within)
	}
	return Tick{}
}

func expectNone(t *testing.T, ch <-chan Tick, within time.Duration) {
	t.Helper()
	select {
	case tick := <-ch:
		t.Fatalf("unexpected callback %+v", tick)
	case <-time.After(within):
	}
}

func TestStartTicksThenExpiresOnce(t *testing.T) {
	t.Parallel()

	c := New(interval)
	r := newRecorder()
	epoch := c.Start("g1", 3, r.onTick, r.onExpire)

	for _, want := range []int{2, 1, 0} {
		tick := recvTick(t, r.ticks, time.Second)
		if tick.Remaining != want {
			t.Fatalf("expected %d got %d", want, tick.Remaining)
		}
		if tick.Epoch != epoch || tick.GameID != "g1" {
			t.Fatalf("unexpected tick %+v", tick)
		}
	}

	expired := recvTick(t, r.expires, time.Second)
	if expired.Remaining != 0 {
		t.Fatalf("expected expiry at 0, got %d", expired.Remaining)
	}
	if !c.Current("g1", epoch) {
		t.Fatal("expired clock must stay current until stopped")
	}

	expectNone(t, r.expires, 10*interval)
	expectNone(t, r.ticks, 0)

	c.Stop("g1")
	if c.Current("g1", epoch) {
		t.Fatal("stopped clock must not be current")
	}
}

func TestStopPreventsExpiry(t *testing.T) {
	t.Parallel()

	c := New(interval)
	r := newRecorder()
	c.Start("g1", 3, r.onTick, r.onExpire)
	recvTick(t, r.ticks, time.Second)

	c.Stop("g1")
	c.Stop("g1")

	expectNone(t, r.expires, 10*interval)
	if c.Running() != 0 {
		t.Fatalf("expected no running clocks, got %d", c.Running())
	}
}

func TestPauseAndResumeKeepRemaining(t *testing.T) {
	t.Parallel()

	c := New(interval)
	r := newRecorder()
	first := c.Start("g1", 100, r.onTick, r.onExpire)

	var last Tick
	for i := 0; i < 3; i++ {
		last = recvTick(t, r.ticks, time.Second)
	}

	remaining, ok := c.Pause("g1")
	if !ok {
		t.Fatal("expected paused clock")
	}
	if remaining > last.Remaining {
		t.Fatalf("pause returned %d after tick %d", remaining, last.Remaining)
	}
	if c.Current("g1", first) {
		t.Fatal("paused clock must not be current")
	}

	// drain a tick that raced with Pause
	time.Sleep(2 * interval)
	for len(r.ticks) > 0 {
		<-r.ticks
	}
	expectNone(t, r.ticks, 5*interval)

	if _, ok := c.Pause("g1"); ok {
		t.Fatal("second pause must report no clock")
	}

	second := c.Resume("g1", remaining, r.onTick, r.onExpire)
	if second == first {
		t.Fatal("resume must produce a new epoch")
	}

	tick := recvTick(t, r.ticks, time.Second)
	if tick.Remaining != remaining-1 || tick.Epoch != second {
		t.Fatalf("expected resume from %d, got %+v", remaining, tick)
	}
	c.Stop("g1")
}

func TestStartReplacesRunningClock(t *testing.T) {
	t.Parallel()

	c := New(interval)
	old := newRecorder()
	c.Start("g1", 2, old.onTick, old.onExpire)

	fresh := newRecorder()
	epoch := c.Start("g1", 50, fresh.onTick, fresh.onExpire)

	expectNone(t, old.expires, 10*interval)
	if c.Running() != 1 {
		t.Fatalf("expected one clock, got %d", c.Running())
	}

	tick := recvTick(t, fresh.ticks, time.Second)
	if tick.Epoch != epoch {
		t.Fatalf("expected epoch %d got %d", epoch, tick.Epoch)
	}
	if remaining, ok := c.Remaining("g1"); !ok || remaining > 49 {
		t.Fatalf("unexpected remaining %d %v", remaining, ok)
	}
	c.StopAll()
	if c.Running() != 0 {
		t.Fatal("expected all clocks stopped")
	}
}

func TestZeroSecondsExpiresOnFirstTick(t *testing.T) {
	t.Parallel()

	c := New(interval)
	r := newRecorder()
	c.Start("g1", 0, r.onTick, r.onExpire)

	if tick := recvTick(t, r.expires, time.Second); tick.Remaining != 0 {
		t.Fatalf("expected 0 got %d", tick.Remaining)
	}
	c.Stop("g1")
}

func TestClocksAreIndependentPerGame(t *testing.T) {
	t.Parallel()

	c := New(interval)
	r1, r2 := newRecorder(), newRecorder()
	c.Start("g1", 2, r1.onTick, r1.onExpire)
	c.Start("g2", 100, r2.onTick, r2.onExpire)

	recvTick(t, r1.expires, time.Second)
	c.Stop("g1")

	if _, ok := c.Remaining("g2"); !ok {
		t.Fatal("g2 clock must keep running")
	}
	c.StopAll()
}
