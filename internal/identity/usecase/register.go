package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type RegisterInput struct {
	Username       string `validate:"required,username"`
	Email          string `validate:"required,email,max=255"`
	Password       string `validate:"required,password"`
	Phone          string `validate:"omitempty,e164"`
	TelegramChatID string `validate:"omitempty,max=64"`
	Admin          bool
}

type RegisterOutput struct {
	ID   int64
	Role entity.Role
}

// Register creates a USER account, or the single ADMIN account when Admin is
// set and no admin exists yet.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.TelegramChatID = strings.TrimSpace(in.TelegramChatID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	role := entity.RoleUser
	if in.Admin {
		exists, err := s.repoDB.AdminExists(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check admin exists", "error", err)
			return nil, goerror.NewServer(err)
		}
		if exists {
			return nil, goerror.NewBusiness("Admin account already exists", goerror.CodeConflict)
		}
		role = entity.RoleAdmin
	}

	hashed, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	user := entity.NewUser{
		ID:             s.uid.Generate(),
		Username:       in.Username,
		Email:          in.Email,
		Phone:          in.Phone,
		TelegramChatID: in.TelegramChatID,
		Role:           role,
		PasswordHash:   string(hashed),
		CreatedAt:      s.clock.Now(),
	}

	// the unique indexes on username, email and the admin role decide races
	err = s.repoDB.CreateUser(ctx, user)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "user already registered", "username", in.Username, "email", in.Email)
		return nil, goerror.NewBusiness("Username or email already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", role.String())

	return &RegisterOutput{ID: user.ID, Role: role}, nil
}
