package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

func TestUsecase_Register(t *testing.T) {
	t.Run("creates a user with hashed password", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		out, err := h.uc.Register(context.Background(), RegisterInput{
			Username:       " alice ",
			Email:          "Alice@Example.com",
			Password:       "Secret123!",
			Phone:          "+15550001111",
			TelegramChatID: "4242",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Role != entity.RoleUser {
			t.Fatalf("role = %s", out.Role)
		}
		stored := h.repo.users[out.ID]
		if stored.Username != "alice" || stored.Email != "alice@example.com" || stored.CreatedAt != t0 {
			t.Fatalf("unexpected stored user %+v", stored)
		}
		if stored.PasswordHash == "" || stored.PasswordHash == "Secret123!" {
			t.Fatalf("password not hashed: %q", stored.PasswordHash)
		}
	})

	t.Run("only one admin", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		register(t, h, "root", true)

		// Act
		_, err := h.uc.Register(context.Background(), RegisterInput{
			Username: "boss",
			Email:    "boss@example.com",
			Password: "Secret123!",
			Admin:    true,
		})

		// Assert
		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("duplicate email", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		register(t, h, "alice", false)

		// Act
		_, err := h.uc.Register(context.Background(), RegisterInput{
			Username: "alice2",
			Email:    "ALICE@example.com",
			Password: "Secret123!",
		})

		// Assert
		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("invalid input", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		_, err := h.uc.Register(context.Background(), RegisterInput{
			Username: "a!",
			Email:    "not-an-email",
			Password: "short",
		})

		// Assert
		assertCode(t, err, goerror.CodeInvalidInput)
		if len(h.repo.users) != 0 {
			t.Fatalf("user stored despite invalid input")
		}
	})
}

func TestUsecase_Login(t *testing.T) {
	t.Run("returns token carrying the role", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		register(t, h, "root", true)

		// Act
		out, err := h.uc.Login(context.Background(), LoginInput{Email: "ROOT@example.com", Password: "Secret123!"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AccessToken != "ADMIN:root@example.com" {
			t.Fatalf("token = %q", out.AccessToken)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		register(t, h, "alice", false)

		// Act
		_, err := h.uc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "Wrong123!"})

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		_, err := h.uc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "Secret123!"})

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})
}
