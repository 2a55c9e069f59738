package entity

import "time"

// Config is the admin-editable part of the OTP settings, shared by every
// replica through storage.
type Config struct {
	CodeLength int
	TTLSeconds int
	UpdatedAt  time.Time
}

// Settings is the snapshot a single generation works with. It is taken once
// per call so a concurrent config change never affects a code mid-flight.
type Settings struct {
	CodeLength int
	TTL        time.Duration
	Channel    Channel
}
