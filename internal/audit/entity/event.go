package entity

import (
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/valueobject"
)

// Event is one persisted OTP lifecycle event.
type Event struct {
	ID          int64
	EventID     string
	Type        string
	OTPID       int64
	UserID      int64
	OperationID string
	Metadata    valueobject.JSONMap
	OccurredAt  time.Time
	RecordedAt  time.Time
}

type EventFilter struct {
	UserID int64 // 0 means every user
	Limit  int32
	Offset int32
}
