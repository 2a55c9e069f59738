package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/audit/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/valueobject"
)

type RecordEventInput struct {
	EventID     string `validate:"required,max=64"`
	Type        string `validate:"required,oneof=generated delivery_failed validated expired"`
	OTPID       int64  `validate:"gte=0"`
	UserID      int64  `validate:"required,gt=0"`
	OperationID string `validate:"max=128"`
	Channel     string
	Reason      string
	OccurredAt  time.Time
}

// RecordEvent stores a lifecycle event once. Redelivered events are ignored.
// Malformed events are dropped rather than retried.
func (s *Usecase) RecordEvent(ctx context.Context, in RecordEventInput) error {
	ctx, span := s.startSpan(ctx, "RecordEvent")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "dropping invalid otp lifecycle event", "event_id", in.EventID, "error", err)
		return nil
	}

	meta := valueobject.JSONMap{}
	if in.Channel != "" {
		meta.Set("channel", in.Channel)
	}
	if in.Reason != "" {
		meta.Set("reason", in.Reason)
	}
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		meta.Set("correlation_id", cID)
	}

	inserted, err := s.repoDB.InsertEvent(ctx, entity.Event{
		ID:          s.uid.Generate(),
		EventID:     in.EventID,
		Type:        in.Type,
		OTPID:       in.OTPID,
		UserID:      in.UserID,
		OperationID: in.OperationID,
		Metadata:    meta,
		OccurredAt:  in.OccurredAt,
		RecordedAt:  s.clock.Now(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo insert audit event", "event_id", in.EventID, "error", err)
		return goerror.NewServer(err)
	}
	if !inserted {
		slog.InfoContext(ctx, "audit event already recorded", "event_id", in.EventID)
	}

	return nil
}
