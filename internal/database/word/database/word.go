package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bloops-games/sketchy/internal/cache"
	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/database"
	"github.com/bloops-games/sketchy/internal/database/word/model"
	"github.com/bloops-games/sketchy/internal/game"
	"github.com/valyala/fastrand"
	bolt "go.etcd.io/bbolt"
)

var (
	ErrNoWords         = game.ErrNoWords
	ErrInvalidCategory = fmt.Errorf("invalid word category: %w", category.ErrUnknown)
	ErrEmptyText       = fmt.Errorf("word text is empty")
)

const prefix = "words_"

var _ game.WordProvider = (*DB)(nil)

func New(db *database.DB, cache cache.Cache[category.Category, []model.Word]) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache[category.Category, []model.Word]
}

func bucket(c category.Category) string {
	return prefix + string(c)
}

// FetchByCategory returns every word of the category, active or not.
func (db *DB) FetchByCategory(c category.Category) ([]model.Word, error) {
	if !c.Valid() {
		return nil, ErrInvalidCategory
	}

	if db.cache != nil {
		if words, ok := db.cache.Get(c); ok {
			return words, nil
		}
	}

	var words []model.Word
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket(c)))
		if b == nil {
			return nil
		}

		return b.ForEach(func(_, v []byte) error {
			var w model.Word
			if err := json.Unmarshal(v, &w); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			words = append(words, w)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(c, words)
	}

	return words, nil
}

func (db *DB) RandomWordByCategory(_ context.Context, c category.Category) (game.Word, error) {
	words, err := db.FetchByCategory(c)
	if err != nil {
		return game.Word{}, fmt.Errorf("fetch by category: %w", err)
	}

	active := make([]model.Word, 0, len(words))
	for _, w := range words {
		if w.Active {
			active = append(active, w)
		}
	}

	if len(active) == 0 {
		return game.Word{}, ErrNoWords
	}

	w := active[fastrand.Uint32n(uint32(len(active)))]

	return game.Word{ID: w.ID, Category: w.Category, Text: w.Text}, nil
}

func (db *DB) put(tx *bolt.Tx, w model.Word) error {
	if !w.Category.Valid() {
		return ErrInvalidCategory
	}

	if strings.TrimSpace(w.Text) == "" {
		return ErrEmptyText
	}

	bytes, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	b, err := database.Bucket(tx, bucket(w.Category))
	if err != nil {
		return err
	}

	if err := b.Put([]byte(w.ID), bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}

	return nil
}

func (db *DB) Add(w model.Word) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		return db.put(tx, w)
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(w.Category)
	}

	return nil
}

// SetActive toggles whether the word can be drawn.
func (db *DB) SetActive(c category.Category, id string, active bool) error {
	if !c.Valid() {
		return ErrInvalidCategory
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket(c)))
		if b == nil {
			return ErrNoWords
		}

		v := b.Get([]byte(id))
		if v == nil {
			return ErrNoWords
		}

		var w model.Word
		if err := json.Unmarshal(v, &w); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		w.Active = active

		return db.put(tx, w)
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(c)
	}

	return nil
}

func (db *DB) CountByCategory() (map[category.Category]int, error) {
	counts := make(map[category.Category]int, category.Total)
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		for _, c := range category.All() {
			counts[c] = 0
			if b := tx.Bucket([]byte(bucket(c))); b != nil {
				counts[c] = b.Stats().KeyN
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return counts, nil
}

// Seed stores words only when the bank is empty and returns how many were stored.
func (db *DB) Seed(words []model.Word) (int, error) {
	counts, err := db.CountByCategory()
	if err != nil {
		return 0, fmt.Errorf("count by category: %w", err)
	}

	for _, n := range counts {
		if n > 0 {
			return 0, nil
		}
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		for _, w := range words {
			if err := db.put(tx, w); err != nil {
				return fmt.Errorf("put %q: %w", w.Text, err)
			}
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Purge()
	}

	return len(words), nil
}
