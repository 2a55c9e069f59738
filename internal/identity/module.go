package identity

import (
	"context"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpgate/internal/identity/inbound"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

// CodePurger is implemented by the otp module.
type CodePurger interface {
	DeleteUserCodes(ctx context.Context, userID int64) (int64, error)
}

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Purger     CodePurger                 `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

// NewDirectory exposes user contacts to other modules. It is built before the
// modules because otp needs it and identity needs otp.
func NewDirectory(conn *pgxpool.Pool, ins instrument.Instrumentation) account.Directory {
	return db.NewDB(conn, ins)
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Purger:     dep.Purger,
		Validator:  dep.Validator,
		Bcrypt:     dep.Bcrypt,
		UID:        dep.UID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Enforcer:   dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
