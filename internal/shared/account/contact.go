// Package account holds the contract between the identity module, which owns
// users, and the modules that need to reach them.
package account

import (
	"context"
	"errors"
)

// ErrUnknownUser is returned by a Directory when the user does not exist.
var ErrUnknownUser = errors.New("account: unknown user")

// Contact is where a user can be reached. Optional fields are empty when the
// user never provided them.
type Contact struct {
	UserID         int64
	Username       string
	Email          string
	Phone          string
	TelegramChatID string
}

// Directory resolves a user id to its contact addresses.
type Directory interface {
	Contact(ctx context.Context, userID int64) (*Contact, error)
}
