package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otpgate/internal/otp/entity"
)

const recordColumns = `id, user_id, operation_id, code_hash, channel, status, created_at, expires_at`

func scanRecord(row pgx.Row) (*entity.Record, error) {
	var rec entity.Record
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.OperationID,
		&rec.CodeHash,
		&rec.Channel,
		&rec.Status,
		&rec.CreatedAt,
		&rec.ExpiresAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *DB) ExistsActive(ctx context.Context, userID int64, operationID string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ExistsActive")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM otp_codes
			WHERE user_id = $1 AND operation_id = $2 AND status = 'ACTIVE'
		)`, userID, operationID).Scan(&exists)
	if err != nil {
		return false, s.mapError(err)
	}

	return exists, nil
}

func (s *DB) Create(ctx context.Context, rec entity.Record) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, `
		INSERT INTO otp_codes (user_id, operation_id, code_hash, channel, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rec.UserID,
		rec.OperationID,
		rec.CodeHash,
		rec.Channel.String(),
		rec.Status.String(),
		rec.CreatedAt,
		rec.ExpiresAt,
	).Scan(&id)
	if err != nil {
		return 0, s.mapError(err)
	}

	return id, nil
}

func (s *DB) FindActive(ctx context.Context, userID int64, operationID, codeHash string) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "FindActive")
	defer func() { s.endSpan(span, err) }()

	rec, err := scanRecord(s.conn.QueryRow(ctx, `
		SELECT `+recordColumns+` FROM otp_codes
		WHERE user_id = $1 AND operation_id = $2 AND code_hash = $3 AND status = 'ACTIVE'`,
		userID, operationID, codeHash))
	if err != nil {
		return nil, s.mapError(err)
	}

	return rec, nil
}

// UpdateStatus only moves an ACTIVE record. It reports false when the record
// was already terminal, which is how concurrent callers lose the race.
func (s *DB) UpdateStatus(ctx context.Context, id int64, status entity.Status) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdateStatus")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE otp_codes SET status = $2
		WHERE id = $1 AND status = 'ACTIVE'`, id, status.String())
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) ListActive(ctx context.Context) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListActive")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT `+recordColumns+` FROM otp_codes
		WHERE status = 'ACTIVE'
		ORDER BY id`)
	if err != nil {
		return nil, s.mapError(err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Record, error) {
		rec, err := scanRecord(row)
		if err != nil {
			return entity.Record{}, err
		}
		return *rec, nil
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return records, nil
}

func (s *DB) DeleteByUserID(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteByUserID")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM otp_codes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
