package config

import (
	"io"
	"time"
)

// Config is the read-only view over application settings.
//
// Implementations must be safe for concurrent use because values may be
// reloaded while requests are in flight.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetArray reads a comma separated value ("a,b,c") or a YAML list.
	GetArray(key string) []string
}
