package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/dbtest"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

func newUser(id int64, username string, role entity.Role) entity.NewUser {
	return entity.NewUser{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		Phone:        "+1555000" + username[:1],
		Role:         role,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestDB_Users(t *testing.T) {
	// Arrange
	pool := dbtest.NewPostgres(t)
	store := NewDB(pool, instrument.NewNoop())
	ctx := context.Background()

	// Act
	errAdmin := store.CreateUser(ctx, newUser(1, "root", entity.RoleAdmin))
	errSecondAdmin := store.CreateUser(ctx, newUser(2, "boss", entity.RoleAdmin))
	errAlice := store.CreateUser(ctx, newUser(3, "alice", entity.RoleUser))
	dupEmail := newUser(4, "alice2", entity.RoleUser)
	dupEmail.Email = "ALICE@example.com"
	errDup := store.CreateUser(ctx, dupEmail)
	adminExists, _ := store.AdminExists(ctx)
	cred, credErr := store.GetUserCredential(ctx, "Alice@Example.com")
	users, listErr := store.ListUsersByRole(ctx, entity.RoleUser)
	contact, contactErr := store.Contact(ctx, 3)
	_, unknownErr := store.Contact(ctx, 99)

	// Assert
	if errAdmin != nil || errAlice != nil {
		t.Fatalf("CreateUser() errors = %v, %v", errAdmin, errAlice)
	}
	if !errors.Is(errSecondAdmin, goerror.ErrConflict) {
		t.Fatalf("second admin error = %v, want ErrConflict", errSecondAdmin)
	}
	if !errors.Is(errDup, goerror.ErrConflict) {
		t.Fatalf("duplicate email error = %v, want ErrConflict", errDup)
	}
	if !adminExists {
		t.Fatalf("AdminExists() = false")
	}
	if credErr != nil || cred.ID != 3 || cred.Role != entity.RoleUser || cred.PasswordHash != "hash" {
		t.Fatalf("GetUserCredential() = %+v, %v", cred, credErr)
	}
	if listErr != nil || len(users) != 1 || users[0].Username != "alice" {
		t.Fatalf("ListUsersByRole() = %+v, %v", users, listErr)
	}
	if contactErr != nil || contact.Email != "alice@example.com" || contact.Username != "alice" {
		t.Fatalf("Contact() = %+v, %v", contact, contactErr)
	}
	if !errors.Is(unknownErr, account.ErrUnknownUser) {
		t.Fatalf("Contact(unknown) error = %v", unknownErr)
	}
}

func TestDB_DeleteUser(t *testing.T) {
	// Arrange
	pool := dbtest.NewPostgres(t)
	store := NewDB(pool, instrument.NewNoop())
	ctx := context.Background()
	if err := store.CreateUser(ctx, newUser(5, "bob", entity.RoleUser)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Act
	first, err1 := store.DeleteUser(ctx, 5)
	second, err2 := store.DeleteUser(ctx, 5)
	_, getErr := store.GetUserByID(ctx, 5)

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("DeleteUser() errors = %v, %v", err1, err2)
	}
	if !first || second {
		t.Fatalf("DeleteUser() = %v then %v, want true then false", first, second)
	}
	if !errors.Is(getErr, goerror.ErrNotFound) {
		t.Fatalf("GetUserByID() after delete error = %v", getErr)
	}
}
