package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/bloops-games/sketchy/internal/database"
	"github.com/bloops-games/sketchy/internal/database/result/model"
	"github.com/bloops-games/sketchy/internal/game"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("result not found")

const (
	gamesBucket  = "results"
	roundsPrefix = "rounds_"
)

var _ game.ResultRecorder = (*DB)(nil)

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func roundsBucket(gameID string) string {
	return roundsPrefix + gameID
}

func (db *DB) RecordRound(ctx context.Context, r game.RoundResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	round := model.Round{ID: uuid.NewString(), RoundResult: r}
	bytes, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	// zero padded round number keeps cursor order equal to play order
	key := []byte(fmt.Sprintf("%08d", r.RoundNumber))
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := database.Bucket(tx, roundsBucket(r.GameID))
		if err != nil {
			return err
		}

		return b.Put(key, bytes)
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}

func (db *DB) RecordGame(ctx context.Context, r game.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bytes, err := json.Marshal(model.Game{ID: uuid.NewString(), Result: r})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := database.Bucket(tx, gamesBucket)
		if err != nil {
			return err
		}

		return b.Put([]byte(r.GameID), bytes)
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}

func (db *DB) FetchGame(gameID string) (model.Game, error) {
	var g model.Game
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(gamesBucket))
		if b == nil {
			return ErrNotFound
		}

		v := b.Get([]byte(gameID))
		if v == nil {
			return ErrNotFound
		}

		return json.Unmarshal(v, &g)
	}); err != nil {
		return g, fmt.Errorf("view transaction error: %w", err)
	}

	return g, nil
}

// FetchRounds returns the rounds of a game in play order.
func (db *DB) FetchRounds(gameID string) ([]model.Round, error) {
	var rounds []model.Round
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(roundsBucket(gameID)))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var r model.Round
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			rounds = append(rounds, r)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return rounds, nil
}

// FetchByRoomCode lists the finished games of a room, latest first.
func (db *DB) FetchByRoomCode(roomCode string) ([]model.Game, error) {
	var games []model.Game
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(gamesBucket))
		if b == nil {
			return nil
		}

		return b.ForEach(func(_, v []byte) error {
			var g model.Game
			if err := json.Unmarshal(v, &g); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			if g.RoomCode == roomCode {
				games = append(games, g)
			}
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].FinishedAt.After(games[j].FinishedAt)
	})

	return games, nil
}
