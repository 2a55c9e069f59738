package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

const userColumns = `id, username, email, phone, telegram_chat_id, role, created_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.TelegramChatID,
		&u.Role,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	user, err := scanUser(s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) GetUserCredential(ctx context.Context, email string) (_ *entity.UserCredential, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredential")
	defer func() { s.endSpan(span, err) }()

	var cred entity.UserCredential
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, role, password_hash FROM users
		WHERE lower(email) = lower($1)`, email).Scan(&cred.ID, &cred.Email, &cred.Role, &cred.PasswordHash)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &cred, nil
}

func (s *DB) ListUsersByRole(ctx context.Context, role entity.Role) (_ []entity.User, err error) {
	ctx, span := s.startSpan(ctx, "ListUsersByRole")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = $1
		ORDER BY created_at DESC, id DESC`, role.String())
	if err != nil {
		return nil, s.mapError(err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return entity.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return users, nil
}

func (s *DB) AdminExists(ctx context.Context) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AdminExists")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE role = 'ADMIN')`).Scan(&exists)
	if err != nil {
		return false, s.mapError(err)
	}

	return exists, nil
}

// Contact lets other modules reach a user without depending on identity.
func (s *DB) Contact(ctx context.Context, userID int64) (*account.Contact, error) {
	user, err := s.GetUserByID(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, account.ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}

	return &account.Contact{
		UserID:         user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Phone:          user.Phone,
		TelegramChatID: user.TelegramChatID,
	}, nil
}
