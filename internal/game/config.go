package game

import "time"

type Config struct {
	TurnSeconds      int           `envconfig:"SKETCHY_TURN_SECONDS" default:"60"`
	StartDelay       time.Duration `envconfig:"SKETCHY_START_DELAY" default:"2s"`
	RollDelay        time.Duration `envconfig:"SKETCHY_ROLL_DELAY" default:"2s"`
	NextTurnDelay    time.Duration `envconfig:"SKETCHY_NEXT_TURN_DELAY" default:"3s"`
	TickInterval     time.Duration `envconfig:"SKETCHY_TICK_INTERVAL" default:"1s"`
	FinishedTTL      time.Duration `envconfig:"SKETCHY_FINISHED_TTL" default:"10m"`
	CleaningInterval time.Duration `envconfig:"SKETCHY_CLEANING_INTERVAL" default:"1m"`
	InboxSize        int           `envconfig:"SKETCHY_SESSION_INBOX_SIZE" default:"64"`
	CommandTimeout   time.Duration `envconfig:"SKETCHY_COMMAND_TIMEOUT" default:"5s"`
}
