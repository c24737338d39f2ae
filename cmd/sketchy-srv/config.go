package main

import (
	"github.com/bloops-games/sketchy/internal/database"
	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/transport/ws"
)

type Config struct {
	Debug bool `envconfig:"SKETCHY_DEBUG" default:"false"`

	// Port on which health check, game state and websocket endpoints are launched
	Port string `envconfig:"SKETCHY_PORT" default:"8080"`

	// Number of rooms kept in the cache
	RoomCacheSize int `envconfig:"SKETCHY_ROOM_CACHE_SIZE" default:"1024"`

	// Number of categories kept in the word cache
	WordCacheSize int `envconfig:"SKETCHY_WORD_CACHE_SIZE" default:"16"`

	// Seed the word bank with the default words on start when it is empty
	SeedWords bool `envconfig:"SKETCHY_SEED_WORDS" default:"true"`

	Game game.Config
	DB   database.Config
	WS   ws.Config
}
