package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/audit/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	InsertEvent(ctx context.Context, ev entity.Event) (bool, error)
	ListEvents(ctx context.Context, filter entity.EventFilter) ([]entity.Event, int64, error)
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	enforcer  enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Enforcer   enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("audit.usecase").Start(ctx, name)
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
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
