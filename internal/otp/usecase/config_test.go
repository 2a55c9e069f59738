package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

func adminCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 1, Role: "ADMIN"})
}

func TestUsecase_GetConfig_Defaults(t *testing.T) {
	h := newHarness(t)

	out, err := h.uc.GetConfig(adminCtx())

	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if out.CodeLength != 6 || out.TTLSeconds != 60 || out.DeliveryChannel != "FILE" {
		t.Fatalf("GetConfig() = %+v", *out)
	}
}

func TestUsecase_Config_Authorization(t *testing.T) {
	h := newHarness(t)
	userCtx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 7, Role: "USER"})

	_, err := h.uc.GetConfig(context.Background())
	assertCode(t, err, goerror.CodeUnauthorized)

	_, err = h.uc.UpdateConfig(userCtx, UpdateConfigInput{CodeLength: 8, TTLSeconds: 120})
	assertCode(t, err, goerror.CodeForbidden)
}

func TestUsecase_UpdateConfig_AppliesToNewCodesOnly(t *testing.T) {
	// Arrange
	h := newHarness(t)
	before, _ := generate(t, h, 7, "before")

	// Act
	out, err := h.uc.UpdateConfig(adminCtx(), UpdateConfigInput{CodeLength: 10, TTLSeconds: 600})

	// Assert
	if err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}
	if out.CodeLength != 10 || out.TTLSeconds != 600 {
		t.Fatalf("UpdateConfig() = %+v", *out)
	}

	h.store.mu.Lock()
	oldExpiry := h.store.records[before].ExpiresAt
	h.store.mu.Unlock()
	if !oldExpiry.Equal(t0.Add(60*time.Second)) {
		t.Fatalf("existing record expiry changed to %v", oldExpiry)
	}

	generate(t, h, 7, "after")
	if len(h.disp.last(7)) != 10 {
		t.Fatalf("new code length = %d, want 10", len(h.disp.last(7)))
	}
}

func TestUsecase_UpdateConfig_Bounds(t *testing.T) {
	tests := []UpdateConfigInput{
		{CodeLength: 3, TTLSeconds: 60},
		{CodeLength: 13, TTLSeconds: 60},
		{CodeLength: 6, TTLSeconds: 59},
		{CodeLength: 6, TTLSeconds: 86401},
	}

	for _, in := range tests {
		h := newHarness(t)

		_, err := h.uc.UpdateConfig(adminCtx(), in)

		assertCode(t, err, goerror.CodeInvalidInput)
	}
}

func TestUsecase_DeleteUserCodes(t *testing.T) {
	h := newHarness(t)
	generate(t, h, 7, "a")
	generate(t, h, 7, "b")
	generate(t, h, 8, "a")

	n, err := h.uc.DeleteUserCodes(context.Background(), 7)

	if err != nil || n != 2 {
		t.Fatalf("DeleteUserCodes() = %d, %v", n, err)
	}
	if h.store.count() != 1 {
		t.Fatalf("records = %d, want 1", h.store.count())
	}
}
