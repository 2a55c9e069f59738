package usecase

import (
	"context"
	"log/slog"
)

// DeleteUserCodes removes every code of userID regardless of status. It is
// called when an admin deletes the user and carries no authorization check
// of its own.
func (s *Usecase) DeleteUserCodes(ctx context.Context, userID int64) (int64, error) {
	ctx, span := s.startSpan(ctx, "DeleteUserCodes")
	defer span.End()

	n, err := s.repoDB.DeleteByUserID(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete otp records of user", "user_id", userID, "error", err)
		return 0, err
	}

	slog.InfoContext(ctx, "otp records deleted", "user_id", userID, "count", n)
	return n, nil
}
