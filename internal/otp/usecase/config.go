package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type ConfigOutput struct {
	CodeLength      int
	TTLSeconds      int
	DeliveryChannel entity.Channel
}

type UpdateConfigInput struct {
	CodeLength int `validate:"required,gte=4,lte=12"`
	TTLSeconds int `validate:"required,gte=60,lte=86400"`
}

func (s *Usecase) GetConfig(ctx context.Context) (*ConfigOutput, error) {
	ctx, span := s.startSpan(ctx, "GetConfig")
	defer span.End()

	if _, err := s.authorized(ctx, constant.PermOTPConfig, constant.PermActRead); err != nil {
		return nil, err
	}

	settings, err := s.snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read otp settings", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ConfigOutput{
		CodeLength:      settings.CodeLength,
		TTLSeconds:      int(settings.TTL.Seconds()),
		DeliveryChannel: settings.Channel,
	}, nil
}

// UpdateConfig only affects codes generated afterwards.
func (s *Usecase) UpdateConfig(ctx context.Context, in UpdateConfigInput) (*ConfigOutput, error) {
	ctx, span := s.startSpan(ctx, "UpdateConfig")
	defer span.End()

	clm, err := s.authorized(ctx, constant.PermOTPConfig, constant.PermActWrite)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.repoDB.UpdateConfig(ctx, entity.Config{
		CodeLength: in.CodeLength,
		TTLSeconds: in.TTLSeconds,
		UpdatedAt:  s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to update otp config", "by_user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "otp config updated", "by_user_id", clm.UserID, "code_length", in.CodeLength, "ttl_seconds", in.TTLSeconds)

	settings, err := s.snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read otp settings", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ConfigOutput{
		CodeLength:      settings.CodeLength,
		TTLSeconds:      int(settings.TTL.Seconds()),
		DeliveryChannel: settings.Channel,
	}, nil
}
