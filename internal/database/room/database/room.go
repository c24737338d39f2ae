package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bloops-games/sketchy/internal/cache"
	"github.com/bloops-games/sketchy/internal/database"
	"github.com/bloops-games/sketchy/internal/database/room/model"
	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/bloops-games/sketchy/internal/turn"
	"github.com/valyala/fastrand"
	bolt "go.etcd.io/bbolt"
)

var (
	ErrNotFound       = game.ErrRoomNotFound
	ErrCodeTaken      = errors.New("room code already taken")
	ErrDuplicatePlayer = errors.New("player assigned twice")
)

const (
	bucket    = "rooms"
	idxBucket = "rooms_by_id"
)

var (
	_ game.RosterProvider = (*DB)(nil)
	_ game.Authorizer     = (*DB)(nil)
)

func New(db *database.DB, cache cache.Cache[string, model.Room]) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache[string, model.Room]
}

func (db *DB) fetch(code string) (model.Room, error) {
	if db.cache != nil {
		if r, ok := db.cache.Get(code); ok {
			return r, nil
		}
	}

	var bytes []byte
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		bytes = append(bytes, b.Get([]byte(code))...)
		return nil
	}); err != nil {
		return model.Room{}, fmt.Errorf("view transaction error: %w", err)
	}

	if len(bytes) == 0 {
		return model.Room{}, ErrNotFound
	}

	var r model.Room
	if err := json.Unmarshal(bytes, &r); err != nil {
		return r, fmt.Errorf("unmarshal: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(code, r)
	}

	return r, nil
}

func (db *DB) FetchByCode(code string) (model.Room, error) {
	return db.fetch(code)
}

func (db *DB) FetchByID(roomID string) (model.Room, error) {
	var code []byte
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(idxBucket))
		if b == nil {
			return nil
		}
		code = append(code, b.Get([]byte(roomID))...)
		return nil
	}); err != nil {
		return model.Room{}, fmt.Errorf("view transaction error: %w", err)
	}

	if len(code) == 0 {
		return model.Room{}, ErrNotFound
	}

	return db.fetch(string(code))
}

func (db *DB) Create(m model.Room) error {
	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := database.Bucket(tx, bucket)
		if err != nil {
			return err
		}

		if b.Get([]byte(m.Code)) != nil {
			return ErrCodeTaken
		}

		idx, err := database.Bucket(tx, idxBucket)
		if err != nil {
			return err
		}

		if err := idx.Put([]byte(m.ID), []byte(m.Code)); err != nil {
			return fmt.Errorf("put to index bucket error: %w", err)
		}

		return b.Put([]byte(m.Code), bytes)
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(m.Code, m)
	}

	return nil
}

func (db *DB) update(code string, fn func(r *model.Room) error) (model.Room, error) {
	var r model.Room
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}

		bytes := b.Get([]byte(code))
		if bytes == nil {
			return ErrNotFound
		}

		if err := json.Unmarshal(bytes, &r); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}

		if err := fn(&r); err != nil {
			return err
		}

		bytes, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}

		return b.Put([]byte(code), bytes)
	}); err != nil {
		return r, fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(code, r)
	}

	return r, nil
}

// AssignTeams replaces both rosters of the room.
func (db *DB) AssignTeams(code string, team1, team2 []model.Player) (model.Room, error) {
	seen := map[string]struct{}{}
	for _, p := range append(append([]model.Player{}, team1...), team2...) {
		if _, ok := seen[p.UserID]; ok {
			return model.Room{}, fmt.Errorf("%s: %w", p.UserID, ErrDuplicatePlayer)
		}
		seen[p.UserID] = struct{}{}
	}

	return db.update(code, func(r *model.Room) error {
		r.Teams[0].Players = append([]model.Player{}, team1...)
		r.Teams[1].Players = append([]model.Player{}, team2...)
		return nil
	})
}

// AssignTeamsRandomly shuffles players and deals them alternately into the two teams.
func (db *DB) AssignTeamsRandomly(code string, players []model.Player) (model.Room, error) {
	shuffled := make([]model.Player, len(players))
	copy(shuffled, players)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	var team1, team2 []model.Player
	for i, p := range shuffled {
		if i%2 == 0 {
			team1 = append(team1, p)
		} else {
			team2 = append(team2, p)
		}
	}

	return db.AssignTeams(code, team1, team2)
}

func (db *DB) SetShuffleTurns(code string, shuffle bool) (model.Room, error) {
	return db.update(code, func(r *model.Room) error {
		r.ShuffleTurns = shuffle
		return nil
	})
}

func (db *DB) Roster(_ context.Context, roomCode string) (game.Roster, error) {
	r, err := db.fetch(roomCode)
	if err != nil {
		return game.Roster{}, fmt.Errorf("fetch room %s: %w", roomCode, err)
	}

	roster := game.Roster{
		RoomID:           r.ID,
		RoomCode:         r.Code,
		HostID:           r.HostID,
		VictoryCondition: state.VictoryCondition(r.VictoryCondition),
		ShuffleTurns:     r.ShuffleTurns,
	}

	for i, team := range r.Teams {
		players := make([]turn.Player, 0, len(team.Players))
		for _, p := range team.Players {
			players = append(players, turn.Player{UserID: p.UserID, Username: p.Username})
		}
		roster.Teams[i] = game.RosterTeam{TeamID: team.ID, Number: team.Number, Players: players}
	}

	return roster, nil
}

func (db *DB) IsHost(_ context.Context, actorID, roomID string) (bool, error) {
	r, err := db.FetchByID(roomID)
	if err != nil {
		return false, fmt.Errorf("fetch room by id: %w", err)
	}

	return r.HostID == actorID, nil
}
