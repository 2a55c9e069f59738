package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// currentConfig falls back to the configured defaults until an admin saves
// the first config row.
func (s *Usecase) currentConfig(ctx context.Context) (*entity.Config, error) {
	cfg, err := s.repoDB.GetConfig(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		return &entity.Config{
			CodeLength: s.intOr("modules.otp.default_code_length", defaultCodeLength),
			TTLSeconds: s.intOr("modules.otp.default_ttl_seconds", defaultTTLSeconds),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Usecase) snapshot(ctx context.Context) (entity.Settings, error) {
	cfg, err := s.currentConfig(ctx)
	if err != nil {
		return entity.Settings{}, err
	}

	ch, err := entity.ParseChannel(s.cfg.GetString("modules.otp.delivery_channel"))
	if err != nil {
		ch = entity.ChannelEmail
	}

	return entity.Settings{
		CodeLength: cfg.CodeLength,
		TTL:        time.Duration(cfg.TTLSeconds) * time.Second,
		Channel:    ch,
	}, nil
}

func (s *Usecase) intOr(key string, def int) int {
	if v := s.cfg.GetInt(key); v > 0 {
		return v
	}
	return def
}
