package inbound

import (
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/valueobject"
)

type Event struct {
	ID          int64               `json:"id,string"`
	EventID     string              `json:"event_id"`
	Type        string              `json:"type"`
	OTPID       int64               `json:"otp_id,string"`
	UserID      int64               `json:"user_id,string"`
	OperationID string              `json:"operation_id"`
	Metadata    valueobject.JSONMap `json:"metadata"`
	OccurredAt  time.Time           `json:"occurred_at"`
	RecordedAt  time.Time           `json:"recorded_at"`
}

type ListEventsResponse struct {
	Events []Event
	Page   int32
	Size   int32
	Total  int64
}

func (r ListEventsResponse) Data() any { return r.Events }

func (r ListEventsResponse) Meta() map[string]any {
	return map[string]any{
		"page":  r.Page,
		"size":  r.Size,
		"total": r.Total,
	}
}
