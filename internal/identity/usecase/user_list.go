package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

// UserList returns every non-admin account, newest first.
func (s *Usecase) UserList(ctx context.Context) ([]entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserList")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermAdminUsers, constant.PermActRead); err != nil {
		return nil, err
	}

	users, err := s.repoDB.ListUsersByRole(ctx, entity.RoleUser)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list users", "error", err)
		return nil, goerror.NewServer(err)
	}

	return users, nil
}
