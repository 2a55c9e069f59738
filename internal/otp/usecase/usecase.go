package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/lock"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultCodeLength      = 6
	defaultTTLSeconds      = 300
	defaultDeliveryTimeout = 10 * time.Second
	defaultGenerateLockTTL = 5 * time.Second
)

// LifecycleEvent is published on every state change of a code and on
// delivery failures.
type LifecycleEvent struct {
	Type        string
	RecordID    int64
	UserID      int64
	OperationID string
	Channel     entity.Channel
	Reason      string
	OccurredAt  time.Time
}

type repoMessaging interface {
	PublishLifecycle(ctx context.Context, ev LifecycleEvent) error
}

type repoDB interface {
	ExistsActive(ctx context.Context, userID int64, operationID string) (bool, error)
	Create(ctx context.Context, rec entity.Record) (int64, error)
	FindActive(ctx context.Context, userID int64, operationID, codeHash string) (*entity.Record, error)
	UpdateStatus(ctx context.Context, id int64, status entity.Status) (bool, error)
	ListActive(ctx context.Context) ([]entity.Record, error)
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)

	GetConfig(ctx context.Context) (*entity.Config, error)
	UpdateConfig(ctx context.Context, cfg entity.Config) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, ch entity.Channel, to account.Contact, code string) error
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	dispatcher    dispatcher
	directory     account.Directory
	locker        lock.Locker
	generator     otp.Generator
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	clock         clock.Clocker
	ins           instrument.Instrumentation
	enforcer      enforcer
	metrics       metrics
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Dispatcher    dispatcher
	Directory     account.Directory
	Locker        lock.Locker
	Generator     otp.Generator
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Enforcer      enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		dispatcher:    dep.Dispatcher,
		directory:     dep.Directory,
		locker:        dep.Locker,
		generator:     dep.Generator,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		metrics:       newMetrics(dep.Instrument.Meter("otp.usecase")),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) authorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// publish is best effort: lifecycle events never fail the operation.
func (s *Usecase) publish(ctx context.Context, ev LifecycleEvent) {
	if err := s.repoMessaging.PublishLifecycle(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish otp lifecycle event",
			"type", ev.Type, "otp_id", ev.RecordID, "user_id", ev.UserID, "error", err)
	}
}

func (s *Usecase) hashCode(code string) (string, error) {
	h, err := s.hmac.Hash(code)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

type metrics struct {
	generated        metric.Int64Counter
	validation       metric.Int64Counter
	expired          metric.Int64Counter
	deliveryFailures metric.Int64Counter
}

func newMetrics(meter metric.Meter) metrics {
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			slog.Error("failed to create otp counter", "name", name, "error", err)
		}
		return c
	}

	return metrics{
		generated:        counter("otp.generated", "Number of OTP codes issued"),
		validation:       counter("otp.validation", "Number of OTP validation attempts by result"),
		expired:          counter("otp.expired", "Number of OTP codes moved to EXPIRED"),
		deliveryFailures: counter("otp.delivery.failures", "Number of failed OTP deliveries by channel"),
	}
}

func add(ctx context.Context, c metric.Int64Counter, n int64, opts ...metric.AddOption) {
	if c == nil || n == 0 {
		return
	}
	c.Add(ctx, n, opts...)
}
