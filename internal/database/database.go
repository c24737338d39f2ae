package database

import (
	"context"
	"fmt"
	"time"

	"github.com/bloops-games/sketchy/internal/logging"
	bolt "go.etcd.io/bbolt"
)

type Config struct {
	FilePath    string        `envconfig:"SKETCHY_DB_FILE_PATH" default:"sketchy.db"`
	OpenTimeout time.Duration `envconfig:"SKETCHY_DB_OPEN_TIMEOUT" default:"1s"`
}

type DB struct {
	DB *bolt.DB
}

func NewFromEnv(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("creating db connection to %s", config.FilePath)

	db, err := bolt.Open(config.FilePath, 0600, &bolt.Options{Timeout: config.OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("creating connection DB: %w", err)
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	logger.Infof("closing DB connection")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("error close DB connection: %w", err)
	}

	return nil
}

// Bucket returns the named bucket, creating it when tx is writable.
func Bucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b != nil || !tx.Writable() {
		return b, nil
	}

	b, err := tx.CreateBucket([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", name, err)
	}

	return b, nil
}
