package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
)

func (s *DB) CreateUser(ctx context.Context, user entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO users (id, username, email, phone, telegram_chat_id, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID,
		user.Username,
		user.Email,
		user.Phone,
		user.TelegramChatID,
		user.PasswordHash,
		user.Role.String(),
		user.CreatedAt,
	)
	return s.mapError(err)
}
