package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/audit"
	"github.com/shandysiswandi/otpgate/internal/identity"
	"github.com/shandysiswandi/otpgate/internal/otp"
)

func (a *App) initModules() {
	var purger identity.CodePurger

	if a.config.GetBool("modules.otp.enabled") {
		mod, err := otp.New(otp.Dependency{
			DBConn:     a.dbConn,
			Locker:     a.locker,
			Enforcer:   a.casbin,
			Router:     a.router,
			Messaging:  a.messaging,
			Mail:       a.mail,
			Directory:  identity.NewDirectory(a.dbConn, a.ins),
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			HMAC:       a.hmac,
			Clock:      a.clock,
			Validator:  a.validator,
		})
		if err != nil {
			slog.Error("failed to init module otp", "error", err)
			os.Exit(1)
		}

		purger = mod
		if mod.Sweeper != nil {
			a.jobs = append(a.jobs, mod.Sweeper)
		}
	}

	if a.config.GetBool("modules.identity.enabled") {
		if purger == nil {
			slog.Error("failed to init module identity", "error", "module otp must be enabled")
			os.Exit(1)
		}

		if err := identity.New(identity.Dependency{
			DBConn:     a.dbConn,
			Enforcer:   a.casbin,
			Router:     a.router,
			Purger:     purger,
			Instrument: a.ins,
			UID:        a.uid,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.audit.enabled") {
		if err := audit.New(audit.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Enforcer:   a.casbin,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module audit", "error", err)
			os.Exit(1)
		}
	}
}
