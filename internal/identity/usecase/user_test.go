package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

func TestUsecase_Profile(t *testing.T) {
	t.Run("returns caller", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		id := register(t, h, "alice", false)

		// Act
		out, err := h.uc.Profile(asUser(id, "USER"))

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.ID != id || out.Username != "alice" || out.Role != "USER" {
			t.Fatalf("unexpected profile %+v", out)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		_, err := h.uc.Profile(context.Background())

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("deleted user", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		_, err := h.uc.Profile(asUser(77, "USER"))

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})
}

func TestUsecase_UserList(t *testing.T) {
	t.Run("admin sees non-admin users", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		adminID := register(t, h, "root", true)
		register(t, h, "alice", false)
		register(t, h, "bob", false)

		// Act
		users, err := h.uc.UserList(asUser(adminID, "ADMIN"))

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
			t.Fatalf("unexpected users %+v", users)
		}
	})

	t.Run("user is forbidden", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		id := register(t, h, "alice", false)

		// Act
		_, err := h.uc.UserList(asUser(id, "USER"))

		// Assert
		assertCode(t, err, goerror.CodeForbidden)
	})
}

func TestUsecase_UserDelete(t *testing.T) {
	t.Run("purges codes then deletes", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		adminID := register(t, h, "root", true)
		id := register(t, h, "alice", false)

		// Act
		err := h.uc.UserDelete(asUser(adminID, "ADMIN"), UserDeleteInput{ID: id})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.purger.calls) != 1 || h.purger.calls[0] != id {
			t.Fatalf("purger calls = %v", h.purger.calls)
		}
		if _, ok := h.repo.users[id]; ok {
			t.Fatalf("user still stored")
		}
	})

	t.Run("keeps user when purge fails", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		adminID := register(t, h, "root", true)
		id := register(t, h, "alice", false)
		h.purger.err = errors.New("db down")

		// Act
		err := h.uc.UserDelete(asUser(adminID, "ADMIN"), UserDeleteInput{ID: id})

		// Assert
		assertCode(t, err, goerror.CodeInternal)
		if _, ok := h.repo.users[id]; !ok {
			t.Fatalf("user deleted despite purge failure")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		adminID := register(t, h, "root", true)

		// Act
		err := h.uc.UserDelete(asUser(adminID, "ADMIN"), UserDeleteInput{ID: 999})

		// Assert
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("admin cannot be deleted", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		adminID := register(t, h, "root", true)

		// Act
		err := h.uc.UserDelete(asUser(adminID, "ADMIN"), UserDeleteInput{ID: adminID})

		// Assert
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		id := register(t, h, "alice", false)

		// Act
		err := h.uc.UserDelete(asUser(id, "USER"), UserDeleteInput{ID: id})

		// Assert
		assertCode(t, err, goerror.CodeForbidden)
	})
}
