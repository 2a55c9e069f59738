package otp

import (
	"context"
	"net/http"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/otp/inbound"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/delivery"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/mq"
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/lock"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/scheduler"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultSweepLockTTL  = time.Minute
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Locker     lock.Locker                `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Directory  account.Directory          `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	// HTTPClient is shared by the SMS and Telegram senders. Defaults to a
	// client bounded by the delivery timeout.
	HTTPClient *http.Client
}

// Module is what other modules and the app need from otp.
type Module struct {
	uc *usecase.Usecase
	// Sweeper is nil when modules.otp.sweeper.enabled is false.
	Sweeper *scheduler.Job
}

// DeleteUserCodes removes every code of a user, whatever its status.
func (m *Module) DeleteUserCodes(ctx context.Context, userID int64) (int64, error) {
	return m.uc.DeleteUserCodes(ctx, userID)
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	client := dep.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: dep.Config.GetSecond("modules.otp.delivery_timeout_seconds")}
	}

	dispatcher := delivery.NewDispatcher(senders(dep, client), dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.UUID, dep.Instrument),
		Dispatcher:    dispatcher,
		Directory:     dep.Directory,
		Locker:        dep.Locker,
		Generator:     otp.NewNumericGenerator(),
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	mod := &Module{uc: uc}

	if dep.Config.GetBool("modules.otp.sweeper.enabled") {
		lockTTL := dep.Config.GetSecond("modules.otp.sweeper.lock_seconds")
		if lockTTL <= 0 {
			lockTTL = defaultSweepLockTTL
		}
		interval := dep.Config.GetSecond("modules.otp.sweeper.interval_seconds")
		if interval <= 0 {
			interval = defaultSweepInterval
		}

		job, err := inbound.NewSweeper(uc, dep.Locker, dep.UUID, lockTTL).Job(interval)
		if err != nil {
			return nil, err
		}
		mod.Sweeper = job
	}

	return mod, nil
}

// senders builds one sender per channel. Channels without configuration are
// left out and fail at dispatch time.
func senders(dep Dependency, client *http.Client) map[entity.Channel]delivery.Sender {
	cfg := dep.Config
	out := map[entity.Channel]delivery.Sender{
		entity.ChannelEmail: delivery.NewEmail(dep.Mail),
	}

	if url := cfg.GetString("modules.otp.sms.gateway_url"); url != "" {
		out[entity.ChannelSMS] = delivery.NewSMS(delivery.SMSConfig{
			GatewayURL: url,
			APIKey:     cfg.GetString("modules.otp.sms.api_key"),
			Sender:     cfg.GetString("modules.otp.sms.sender"),
			Client:     client,
		})
	}

	if token := cfg.GetString("modules.otp.telegram.bot_token"); token != "" {
		out[entity.ChannelTelegram] = delivery.NewTelegram(delivery.TelegramConfig{
			BaseURL:       cfg.GetString("modules.otp.telegram.base_url"),
			BotToken:      token,
			DefaultChatID: cfg.GetString("modules.otp.telegram.default_chat_id"),
			Client:        client,
		})
	}

	if path := cfg.GetString("modules.otp.file.path"); path != "" {
		out[entity.ChannelFile] = delivery.NewFile(path, dep.Clock.Now)
	}

	return out
}
