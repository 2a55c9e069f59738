package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserCredential(ctx context.Context, email string) (*entity.UserCredential, error)
	ListUsersByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
	AdminExists(ctx context.Context) (bool, error)

	CreateUser(ctx context.Context, user entity.NewUser) error
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// codePurger removes the OTP codes of a user before the user row goes away.
type codePurger interface {
	DeleteUserCodes(ctx context.Context, userID int64) (int64, error)
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Usecase struct {
	repoDB    repoDB
	purger    codePurger
	validator validator.Validator
	bcrypt    hash.Hash
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
	enforcer  enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Purger     codePurger
	Validator  validator.Validator
	Bcrypt     hash.Hash
	UID        uid.NumberID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	Enforcer   enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		purger:    dep.Purger,
		validator: dep.Validator,
		bcrypt:    dep.Bcrypt,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.Role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "access denied", "user_id", clm.UserID, "role", clm.Role, "obj", obj, "act", act)
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}
