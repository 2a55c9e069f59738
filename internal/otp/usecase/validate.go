package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type ValidateInput struct {
	UserID      int64  `validate:"required,gt=0"`
	OperationID string `validate:"required,max=128"`
	Code        string `validate:"required,max=32"`
}

// Validate consumes the active code for (user, operation) when code matches
// and has not expired. Any mismatch is reported as false, never as an error.
func (s *Usecase) Validate(ctx context.Context, in ValidateInput) (bool, error) {
	ctx, span := s.startSpan(ctx, "Validate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return false, goerror.NewInvalidInput(err)
	}

	ok, result, err := s.validate(ctx, in)
	if err == nil {
		add(ctx, s.metrics.validation, 1, metric.WithAttributes(attribute.String("result", result)))
	}
	return ok, err
}

func (s *Usecase) validate(ctx context.Context, in ValidateInput) (bool, string, error) {
	codeHash, err := s.hashCode(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return false, "", goerror.NewServer(err)
	}

	rec, err := s.repoDB.FindActive(ctx, in.UserID, in.OperationID, codeHash)
	if errors.Is(err, goerror.ErrNotFound) {
		return false, "mismatch", nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to find active otp", "user_id", in.UserID, "operation_id", in.OperationID, "error", err)
		return false, "", goerror.NewServer(err)
	}

	now := s.clock.Now()
	if rec.IsExpiredAt(now) {
		if err := s.expire(ctx, *rec); err != nil {
			return false, "", err
		}
		return false, "expired", nil
	}

	won, err := s.repoDB.UpdateStatus(ctx, rec.ID, entity.StatusUsed)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark otp used", "otp_id", rec.ID, "error", err)
		return false, "", goerror.NewServer(err)
	}
	if !won {
		// a concurrent validation or the sweeper got there first
		return false, "lost_race", nil
	}

	s.publish(ctx, LifecycleEvent{
		Type:        event.OTPValidated,
		RecordID:    rec.ID,
		UserID:      rec.UserID,
		OperationID: rec.OperationID,
		Channel:     rec.Channel,
		OccurredAt:  now,
	})

	return true, "valid", nil
}

// expire moves rec to EXPIRED. Losing the swap is not an error.
func (s *Usecase) expire(ctx context.Context, rec entity.Record) error {
	won, err := s.repoDB.UpdateStatus(ctx, rec.ID, entity.StatusExpired)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark otp expired", "otp_id", rec.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !won {
		return nil
	}

	add(ctx, s.metrics.expired, 1)
	s.publish(ctx, LifecycleEvent{
		Type:        event.OTPExpired,
		RecordID:    rec.ID,
		UserID:      rec.UserID,
		OperationID: rec.OperationID,
		Channel:     rec.Channel,
		OccurredAt:  s.clock.Now(),
	})
	return nil
}
