package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
)

// configRowID is the only row of otp_configs.
const configRowID = 1

func (s *DB) GetConfig(ctx context.Context) (_ *entity.Config, err error) {
	ctx, span := s.startSpan(ctx, "GetConfig")
	defer func() { s.endSpan(span, err) }()

	var cfg entity.Config
	err = s.conn.QueryRow(ctx, `
		SELECT code_length, ttl_seconds, updated_at
		FROM otp_configs WHERE id = $1`, configRowID).
		Scan(&cfg.CodeLength, &cfg.TTLSeconds, &cfg.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &cfg, nil
}

func (s *DB) UpdateConfig(ctx context.Context, cfg entity.Config) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateConfig")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO otp_configs (id, code_length, ttl_seconds, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET code_length = EXCLUDED.code_length,
		    ttl_seconds = EXCLUDED.ttl_seconds,
		    updated_at = EXCLUDED.updated_at`,
		configRowID, cfg.CodeLength, cfg.TTLSeconds, cfg.UpdatedAt)

	return s.mapError(err)
}
