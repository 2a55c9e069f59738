package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/lock"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const msgActiveCodeExists = "an active OTP code already exists for this operation"

type GenerateInput struct {
	UserID      int64  `validate:"required,gt=0"`
	OperationID string `validate:"required,operation_id"`
}

type GenerateOutput struct {
	ID        int64
	Channel   entity.Channel
	ExpiresAt time.Time
}

func (s *Usecase) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	ctx, span := s.startSpan(ctx, "Generate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	settings, err := s.snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read otp settings", "error", err)
		return nil, goerror.NewServer(err)
	}

	var rec entity.Record
	lockKey := "otp:generate:" + strconv.FormatInt(in.UserID, 10) + ":" + in.OperationID
	lockTTL := durationOr(s.cfg.GetSecond("modules.otp.generate_lock_seconds"), defaultGenerateLockTTL)

	err = lock.With(ctx, s.locker, lockKey, lockTTL, func(ctx context.Context) error {
		var ierr error
		rec, ierr = s.issue(ctx, in, settings)
		return ierr
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		slog.WarnContext(ctx, "otp generation already in progress", "user_id", in.UserID, "operation_id", in.OperationID)
		return nil, goerror.NewBusiness(msgActiveCodeExists, goerror.CodeConflict)
	}
	// issue only returns typed errors; anything else comes from the locker
	var ge *goerror.Error
	if err != nil && !errors.As(err, &ge) {
		slog.ErrorContext(ctx, "failed to acquire otp generation lock", "user_id", in.UserID, "operation_id", in.OperationID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if err != nil {
		return nil, err
	}

	add(ctx, s.metrics.generated, 1, metric.WithAttributes(attribute.String("channel", rec.Channel.String())))

	if err := s.deliver(ctx, rec); err != nil {
		return nil, err
	}

	s.publish(ctx, LifecycleEvent{
		Type:        event.OTPGenerated,
		RecordID:    rec.ID,
		UserID:      rec.UserID,
		OperationID: rec.OperationID,
		Channel:     rec.Channel,
		OccurredAt:  rec.CreatedAt,
	})

	return &GenerateOutput{ID: rec.ID, Channel: rec.Channel, ExpiresAt: rec.ExpiresAt}, nil
}

// issue runs under the per-key lock: check, generate and persist.
func (s *Usecase) issue(ctx context.Context, in GenerateInput, settings entity.Settings) (entity.Record, error) {
	exists, err := s.repoDB.ExistsActive(ctx, in.UserID, in.OperationID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check active otp", "user_id", in.UserID, "operation_id", in.OperationID, "error", err)
		return entity.Record{}, goerror.NewServer(err)
	}
	if exists {
		return entity.Record{}, goerror.NewBusiness(msgActiveCodeExists, goerror.CodeConflict)
	}

	code, err := s.generator.Generate(settings.CodeLength)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "length", settings.CodeLength, "error", err)
		return entity.Record{}, goerror.NewServer(err)
	}

	codeHash, err := s.hashCode(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return entity.Record{}, goerror.NewServer(err)
	}

	createdAt := s.clock.Now()
	rec := entity.Record{
		UserID:      in.UserID,
		OperationID: in.OperationID,
		Code:        code,
		CodeHash:    codeHash,
		Channel:     settings.Channel,
		Status:      entity.StatusActive,
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(settings.TTL),
	}

	id, err := s.repoDB.Create(ctx, rec)
	if errors.Is(err, goerror.ErrConflict) {
		return entity.Record{}, goerror.NewBusiness(msgActiveCodeExists, goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to create otp record", "user_id", in.UserID, "operation_id", in.OperationID, "error", err)
		return entity.Record{}, goerror.NewServer(err)
	}
	rec.ID = id

	return rec, nil
}

// deliver leaves the record ACTIVE on failure; it expires through its TTL.
func (s *Usecase) deliver(ctx context.Context, rec entity.Record) error {
	contact, err := s.directory.Contact(ctx, rec.UserID)
	if errors.Is(err, account.ErrUnknownUser) {
		err = s.deliveryFailed(ctx, rec, err)
		return goerror.NewDelivery(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve user contact", "user_id", rec.UserID, "error", err)
		return goerror.NewServer(err)
	}

	timeout := durationOr(s.cfg.GetSecond("modules.otp.delivery_timeout_seconds"), defaultDeliveryTimeout)
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.dispatcher.Dispatch(dctx, rec.Channel, *contact, rec.Code); err != nil {
		return goerror.NewDelivery(s.deliveryFailed(ctx, rec, err))
	}

	return nil
}

func (s *Usecase) deliveryFailed(ctx context.Context, rec entity.Record, cause error) error {
	slog.ErrorContext(ctx, "failed to deliver otp code",
		"otp_id", rec.ID, "user_id", rec.UserID, "channel", rec.Channel, "error", cause)
	add(ctx, s.metrics.deliveryFailures, 1, metric.WithAttributes(attribute.String("channel", rec.Channel.String())))

	s.publish(ctx, LifecycleEvent{
		Type:        event.OTPDeliveryFailed,
		RecordID:    rec.ID,
		UserID:      rec.UserID,
		OperationID: rec.OperationID,
		Channel:     rec.Channel,
		Reason:      cause.Error(),
		OccurredAt:  s.clock.Now(),
	})
	return cause
}
