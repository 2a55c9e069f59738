package uid

import "github.com/google/uuid"

// UUID generates v7 UUID strings, falling back to v4.
type UUID struct{}

// NewUUID returns a time-ordered UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
