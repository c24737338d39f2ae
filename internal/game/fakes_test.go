package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/clock"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/bloops-games/sketchy/internal/turn"
)

type sent struct {
	roomCode string
	userID   string
	n        Notification
}

type fakeNotifier struct {
	ch chan sent
}

func (f *fakeNotifier) Broadcast(roomCode string, n Notification) {
	f.ch <- sent{roomCode: roomCode, n: n}
}

func (f *fakeNotifier) Send(userID string, n Notification) {
	f.ch <- sent{userID: userID, n: n}
}

type fakeRosters struct {
	mtx     sync.Mutex
	rosters map[string]Roster
}

func (f *fakeRosters) Roster(_ context.Context, roomCode string) (Roster, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	r, ok := f.rosters[roomCode]
	if !ok {
		return Roster{}, ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeRosters) set(r Roster) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.rosters[r.RoomCode] = r
}

type fakeAuth struct {
	rosters *fakeRosters
}

func (f *fakeAuth) IsHost(_ context.Context, actorID, roomID string) (bool, error) {
	f.rosters.mtx.Lock()
	defer f.rosters.mtx.Unlock()
	for _, r := range f.rosters.rosters {
		if r.RoomID == roomID {
			return r.HostID == actorID, nil
		}
	}
	return false, ErrRoomNotFound
}

type fakeWords struct {
	mtx   sync.Mutex
	empty bool
}

func (f *fakeWords) RandomWordByCategory(_ context.Context, c category.Category) (Word, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.empty {
		return Word{}, ErrNoWords
	}
	return Word{ID: "w-" + string(c), Category: c, Text: "palabra " + string(c)}, nil
}

func (f *fakeWords) setEmpty(empty bool) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.empty = empty
}

type fakeResults struct {
	mtx    sync.Mutex
	rounds []RoundResult
	games  []Result
}

func (f *fakeResults) RecordRound(_ context.Context, r RoundResult) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.rounds = append(f.rounds, r)
	return nil
}

func (f *fakeResults) RecordGame(_ context.Context, r Result) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.games = append(f.games, r)
	return nil
}

func (f *fakeResults) snapshot() ([]RoundResult, []Result) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]RoundResult(nil), f.rounds...), append([]Result(nil), f.games...)
}

type fixture struct {
	manager  *Manager
	store    *state.Store
	notifier *fakeNotifier
	rosters  *fakeRosters
	words    *fakeWords
	results  *fakeResults
}

var (
	alice = Actor{UserID: "A", Username: "alice"}
	bob   = Actor{UserID: "B", Username: "bob"}
	carol = Actor{UserID: "C", Username: "carol"}
	dave  = Actor{UserID: "D", Username: "dave"}
	eve   = Actor{UserID: "E", Username: "eve"}
)

func player(a Actor) turn.Player {
	return turn.Player{UserID: a.UserID, Username: a.Username}
}

func testConfig() Config {
	return Config{
		TurnSeconds:      60,
		StartDelay:       time.Millisecond,
		RollDelay:        time.Millisecond,
		NextTurnDelay:    time.Millisecond,
		TickInterval:     time.Hour,
		FinishedTTL:      time.Minute,
		CleaningInterval: time.Hour,
		InboxSize:        64,
		CommandTimeout:   time.Second,
	}
}

func testRoster(code string, victory state.VictoryCondition) Roster {
	return Roster{
		RoomID:           "room-" + code,
		RoomCode:         code,
		HostID:           alice.UserID,
		VictoryCondition: victory,
		Teams: [2]RosterTeam{
			{TeamID: "t1", Number: 1, Players: []turn.Player{player(alice), player(bob)}},
			{TeamID: "t2", Number: 2, Players: []turn.Player{player(carol), player(dave)}},
		},
	}
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	rosters := &fakeRosters{rosters: map[string]Roster{}}
	f := &fixture{
		store:    state.NewStore(),
		notifier: &fakeNotifier{ch: make(chan sent, 4096)},
		rosters:  rosters,
		words:    &fakeWords{},
		results:  &fakeResults{},
	}

	f.manager = NewManager(ctx, &config, f.store, clock.New(config.TickInterval), Deps{
		Rosters:  rosters,
		Words:    f.words,
		Auth:     &fakeAuth{rosters: rosters},
		Notifier: f.notifier,
		Results:  f.results,
	})

	t.Cleanup(func() {
		cancel()
		f.manager.Stop()
	})

	return f
}

// waitFor skips notifications until event arrives.
func (f *fixture) waitFor(t *testing.T, event Event, within time.Duration) sent {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case s := <-f.notifier.ch:
			if s.n.Event == event {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", event)
			return sent{}
		}
	}
}

// expectQuiet fails on any notification other than the ignored ones.
func (f *fixture) expectQuiet(t *testing.T, within time.Duration, ignore ...Event) {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case s := <-f.notifier.ch:
			ignored := false
			for _, e := range ignore {
				if s.n.Event == e {
					ignored = true
				}
			}
			if !ignored {
				t.Fatalf("unexpected notification %s: %+v", s.n.Event, s.n.Payload)
			}
		case <-deadline:
			return
		}
	}
}
