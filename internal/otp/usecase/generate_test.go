package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

func TestUsecase_Generate(t *testing.T) {
	// Arrange
	h := newHarness(t)
	ctx := context.Background()

	// Act
	out, err := h.uc.Generate(ctx, GenerateInput{UserID: 7, OperationID: "transfer:42"})

	// Assert
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out.Channel != entity.ChannelFile {
		t.Fatalf("Channel = %s, want FILE", out.Channel)
	}
	if !out.ExpiresAt.Equal(t0.Add(60*time.Second)) {
		t.Fatalf("ExpiresAt = %v, want %v", out.ExpiresAt, t0.Add(60*time.Second))
	}

	code := h.disp.last(7)
	if len(code) != 6 {
		t.Fatalf("code %q has length %d, want 6", code, len(code))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("code %q contains non-digit %q", code, c)
		}
	}
	if h.store.status(out.ID) != entity.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", h.store.status(out.ID))
	}
	if got := h.mq.types(); !slices.Equal(got, []string{event.OTPGenerated}) {
		t.Fatalf("events = %v", got)
	}
}

func TestUsecase_Generate_SecondCallConflicts(t *testing.T) {
	// Arrange
	h := newHarness(t)
	ctx := context.Background()
	in := GenerateInput{UserID: 7, OperationID: "login"}
	if _, err := h.uc.Generate(ctx, in); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	// Act
	_, err := h.uc.Generate(ctx, in)

	// Assert
	assertCode(t, err, goerror.CodeConflict)
	if h.store.count() != 1 {
		t.Fatalf("records = %d, want 1", h.store.count())
	}
}

func TestUsecase_Generate_OtherOperationIsIndependent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.uc.Generate(ctx, GenerateInput{UserID: 7, OperationID: "login"}); err != nil {
		t.Fatalf("Generate(login) error = %v", err)
	}
	if _, err := h.uc.Generate(ctx, GenerateInput{UserID: 7, OperationID: "withdraw"}); err != nil {
		t.Fatalf("Generate(withdraw) error = %v", err)
	}
	if _, err := h.uc.Generate(ctx, GenerateInput{UserID: 8, OperationID: "login"}); err != nil {
		t.Fatalf("Generate(other user) error = %v", err)
	}
}

func TestUsecase_Generate_LockHeldElsewhere(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.uc.locker = busyLocker{}

	// Act
	_, err := h.uc.Generate(context.Background(), GenerateInput{UserID: 7, OperationID: "login"})

	// Assert
	assertCode(t, err, goerror.CodeConflict)
	if h.store.count() != 0 {
		t.Fatalf("records = %d, want 0", h.store.count())
	}
}

func TestUsecase_Generate_LockBackendDown(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.uc.locker = downLocker{}

	// Act
	_, err := h.uc.Generate(context.Background(), GenerateInput{UserID: 7, OperationID: "login"})

	// Assert
	assertCode(t, err, goerror.CodeInternal)
	if h.store.count() != 0 {
		t.Fatalf("records = %d, want 0", h.store.count())
	}
}

func TestUsecase_Generate_ConcurrentSameKey(t *testing.T) {
	// Arrange
	h := newHarness(t)
	const callers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	// Act
	for range callers {
		wg.Go(func() {
			_, err := h.uc.Generate(context.Background(), GenerateInput{UserID: 7, OperationID: "login"})
			mu.Lock()
			defer mu.Unlock()

			var ge *goerror.Error
			switch {
			case err == nil:
				successes++
			case errors.As(err, &ge) && ge.Code() == goerror.CodeConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	// Assert
	if successes != 1 || conflicts != callers-1 {
		t.Fatalf("successes = %d, conflicts = %d", successes, conflicts)
	}
	if h.store.count() != 1 {
		t.Fatalf("records = %d, want 1", h.store.count())
	}
}

func TestUsecase_Generate_DeliveryFailureKeepsRecordActive(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.disp.err = errors.New("smtp: connection refused")
	ctx := context.Background()
	in := GenerateInput{UserID: 7, OperationID: "login"}

	// Act
	_, err := h.uc.Generate(ctx, in)

	// Assert
	assertCode(t, err, goerror.CodeBadGateway)
	if !errors.Is(err, h.disp.err) {
		t.Fatalf("error does not wrap the delivery cause: %v", err)
	}
	if h.store.status(1) != entity.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", h.store.status(1))
	}
	if got := h.mq.types(); !slices.Equal(got, []string{event.OTPDeliveryFailed}) {
		t.Fatalf("events = %v", got)
	}

	h.disp.err = nil
	_, err = h.uc.Generate(ctx, in)
	assertCode(t, err, goerror.CodeConflict)
}

func TestUsecase_Generate_UnknownUser(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.Generate(context.Background(), GenerateInput{UserID: 404, OperationID: "login"})

	assertCode(t, err, goerror.CodeBadGateway)
}

func TestUsecase_Generate_PublishFailureIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.mq.err = errors.New("broker down")

	if _, err := h.uc.Generate(context.Background(), GenerateInput{UserID: 7, OperationID: "login"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestUsecase_Generate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   GenerateInput
	}{
		{name: "missing user", in: GenerateInput{OperationID: "login"}},
		{name: "missing operation", in: GenerateInput{UserID: 7}},
		{name: "operation with spaces", in: GenerateInput{UserID: 7, OperationID: "log in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.uc.Generate(context.Background(), tt.in)

			assertCode(t, err, goerror.CodeInvalidInput)
		})
	}
}

func TestUsecase_Generate_UsesSnapshotOfStoredConfig(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.store.cfg = &entity.Config{CodeLength: 8, TTLSeconds: 120}

	// Act
	out, err := h.uc.Generate(context.Background(), GenerateInput{UserID: 7, OperationID: "login"})

	// Assert
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(h.disp.last(7)) != 8 {
		t.Fatalf("code length = %d, want 8", len(h.disp.last(7)))
	}
	if !out.ExpiresAt.Equal(t0.Add(120*time.Second)) {
		t.Fatalf("ExpiresAt = %v", out.ExpiresAt)
	}
}
