package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type UserDeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

// UserDelete removes a user and every OTP code issued to them. The admin
// account cannot be deleted.
func (s *Usecase) UserDelete(ctx context.Context, in UserDeleteInput) error {
	ctx, span := s.startSpan(ctx, "UserDelete")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermAdminUsers, constant.PermActDelete)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user not found", "user_id", in.ID)
		return goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if user.Role.IsAdmin() {
		return goerror.NewBusiness("admin account cannot be deleted", goerror.CodeForbidden)
	}

	n, err := s.purger.DeleteUserCodes(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete otp codes of user", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	deleted, err := s.repoDB.DeleteUser(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete user", "user_id", user.ID, "by_user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}
	if !deleted {
		return goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}

	slog.InfoContext(ctx, "user deleted", "user_id", user.ID, "by_user_id", clm.UserID, "otp_codes", n)

	return nil
}
