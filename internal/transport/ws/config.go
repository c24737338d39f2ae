package ws

import "time"

type Config struct {
	AllowedOrigins []string      `envconfig:"SKETCHY_ALLOWED_ORIGINS"`
	CommandRate    float64       `envconfig:"SKETCHY_COMMAND_RATE" default:"5"`
	CommandBurst   int           `envconfig:"SKETCHY_COMMAND_BURST" default:"10"`
	SendBuffer     int           `envconfig:"SKETCHY_SEND_BUFFER" default:"64"`
	PongWait       time.Duration `envconfig:"SKETCHY_PONG_WAIT" default:"60s"`
	WriteWait      time.Duration `envconfig:"SKETCHY_WRITE_WAIT" default:"10s"`
	MaxMessageSize int64         `envconfig:"SKETCHY_MAX_MESSAGE_SIZE" default:"4096"`
}

func (c Config) pingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}
