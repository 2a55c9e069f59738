package inbound

import (
	"net/http"
	"time"
)

type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	TelegramChatID string `json:"telegram_chat_id"`
	Admin          bool   `json:"admin"`
}

type RegisterResponse struct {
	ID   int64  `json:"id,string"`
	Role string `json:"role"`
}

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

func (RegisterResponse) Message() string { return "User registered successfully" }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type ProfileResponse struct {
	ID       int64  `json:"id,string"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type User struct {
	ID             int64     `json:"id,string"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	TelegramChatID string    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserListResponse []User

func (r UserListResponse) Meta() map[string]any {
	return map[string]any{"total": len(r)}
}

type UserDeleteResponse struct{}

func (UserDeleteResponse) StatusCode() int { return http.StatusNoContent }
