package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpgate/internal/audit/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}
	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("audit.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// InsertEvent reports false when event_id was already recorded.
func (s *DB) InsertEvent(ctx context.Context, ev entity.Event) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "InsertEvent")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		INSERT INTO audit_otp_events (id, event_id, type, otp_id, user_id, operation_id, metadata, occurred_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (event_id) DO NOTHING`,
		ev.ID,
		ev.EventID,
		ev.Type,
		ev.OTPID,
		ev.UserID,
		ev.OperationID,
		ev.Metadata,
		ev.OccurredAt,
		ev.RecordedAt,
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) ListEvents(ctx context.Context, filter entity.EventFilter) (_ []entity.Event, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListEvents")
	defer func() { s.endSpan(span, err) }()

	var total int64
	err = s.conn.QueryRow(ctx, `
		SELECT count(*) FROM audit_otp_events
		WHERE ($1::BIGINT = 0 OR user_id = $1)`, filter.UserID).Scan(&total)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT id, event_id, type, otp_id, user_id, operation_id, metadata, occurred_at, recorded_at
		FROM audit_otp_events
		WHERE ($1::BIGINT = 0 OR user_id = $1)
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2 OFFSET $3`, filter.UserID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Event, error) {
		var ev entity.Event
		err := row.Scan(
			&ev.ID,
			&ev.EventID,
			&ev.Type,
			&ev.OTPID,
			&ev.UserID,
			&ev.OperationID,
			&ev.Metadata,
			&ev.OccurredAt,
			&ev.RecordedAt,
		)
		return ev, err
	})
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return events, total, nil
}
