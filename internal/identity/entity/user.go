package entity

import (
	"time"

	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type Role string

const (
	RoleUser  Role = constant.RoleUser
	RoleAdmin Role = constant.RoleAdmin
)

func (r Role) String() string { return string(r) }

func (r Role) IsAdmin() bool { return r == RoleAdmin }

type User struct {
	ID             int64
	Username       string
	Email          string
	Phone          string
	TelegramChatID string
	Role           Role
	CreatedAt      time.Time
}

// UserCredential is what login needs. PasswordHash never leaves the usecase.
type UserCredential struct {
	ID           int64
	Email        string
	Role         Role
	PasswordHash string
}

type NewUser struct {
	ID             int64
	Username       string
	Email          string
	Phone          string
	TelegramChatID string
	Role           Role
	PasswordHash   string
	CreatedAt      time.Time
}
