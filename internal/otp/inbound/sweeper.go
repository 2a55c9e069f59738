package inbound

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/lock"
	"github.com/shandysiswandi/otpgate/internal/pkg/scheduler"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

const (
	sweeperJobName = "otp.sweeper"
	sweeperLockKey = "otp:sweeper"
)

type expirer interface {
	ExpireStale(ctx context.Context) (*usecase.ExpireOutput, error)
}

// Sweeper expires stale codes on a fixed interval. Only the replica holding
// the sweeper lock runs a given tick.
type Sweeper struct {
	uc      expirer
	locker  lock.Locker
	uuid    uid.StringID
	lockTTL time.Duration
}

func NewSweeper(uc expirer, locker lock.Locker, uuid uid.StringID, lockTTL time.Duration) *Sweeper {
	return &Sweeper{uc: uc, locker: locker, uuid: uuid, lockTTL: lockTTL}
}

// Job wraps the sweeper in a scheduler job ticking every interval.
func (s *Sweeper) Job(interval time.Duration) (*scheduler.Job, error) {
	return scheduler.NewJob(sweeperJobName, interval, s.Run)
}

func (s *Sweeper) Run(ctx context.Context) error {
	ctx = instrument.SetCorrelationID(ctx, s.uuid.Generate())

	err := lock.With(ctx, s.locker, sweeperLockKey, s.lockTTL, func(ctx context.Context) error {
		out, err := s.uc.ExpireStale(ctx)
		if out != nil {
			slog.InfoContext(ctx, "otp sweep finished",
				"scanned", out.Scanned, "expired", out.Expired, "failed", out.Failed)
		}
		return err
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		slog.DebugContext(ctx, "otp sweep skipped, another replica holds the lock")
		return nil
	}

	return err
}
