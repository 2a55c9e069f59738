package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

type ExpireOutput struct {
	Scanned int
	Expired int
	Failed  int
}

// ExpireStale moves every ACTIVE record past its expiry to EXPIRED. A
// failure on one record does not stop the sweep.
func (s *Usecase) ExpireStale(ctx context.Context) (*ExpireOutput, error) {
	ctx, span := s.startSpan(ctx, "ExpireStale")
	defer span.End()

	active, err := s.repoDB.ListActive(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list active otp records", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	stale := lo.Filter(active, func(rec entity.Record, _ int) bool {
		return rec.ExpiresAt.Before(now)
	})

	out := &ExpireOutput{Scanned: len(active)}
	for _, rec := range stale {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		won, err := s.repoDB.UpdateStatus(ctx, rec.ID, entity.StatusExpired)
		if err != nil {
			slog.ErrorContext(ctx, "failed to expire otp record", "otp_id", rec.ID, "error", err)
			out.Failed++
			continue
		}
		if !won {
			continue
		}

		out.Expired++
		s.publish(ctx, LifecycleEvent{
			Type:        event.OTPExpired,
			RecordID:    rec.ID,
			UserID:      rec.UserID,
			OperationID: rec.OperationID,
			Channel:     rec.Channel,
			Reason:      "sweeper",
			OccurredAt:  now,
		})
	}

	add(ctx, s.metrics.expired, int64(out.Expired))

	return out, nil
}
