package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type fakeUsecase struct {
	generate func(in usecase.GenerateInput) (*usecase.GenerateOutput, error)
	validate func(in usecase.ValidateInput) (bool, error)
}

func (f *fakeUsecase) Generate(_ context.Context, in usecase.GenerateInput) (*usecase.GenerateOutput, error) {
	return f.generate(in)
}

func (f *fakeUsecase) Validate(_ context.Context, in usecase.ValidateInput) (bool, error) {
	return f.validate(in)
}

func (f *fakeUsecase) GetConfig(context.Context) (*usecase.ConfigOutput, error) {
	return &usecase.ConfigOutput{CodeLength: 6, TTLSeconds: 300, DeliveryChannel: entity.ChannelEmail}, nil
}

func (f *fakeUsecase) UpdateConfig(_ context.Context, in usecase.UpdateConfigInput) (*usecase.ConfigOutput, error) {
	return &usecase.ConfigOutput{CodeLength: in.CodeLength, TTLSeconds: in.TTLSeconds, DeliveryChannel: entity.ChannelEmail}, nil
}

type staticJWT struct{}

func (staticJWT) Generate(int64, string, string) (string, error) { return "token", nil }

func (staticJWT) Verify(token string) (jwt.Claims, error) {
	if token != "user-token" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{UserID: 42, Role: "USER"}, nil
}

type staticID struct{}

func (staticID) Generate() string { return "cid" }

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, f *fakeUsecase, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := router.NewRouter(router.Config{
		UUID:       staticID{},
		JWT:        staticJWT{},
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, f)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestHTTPEndpoint_Generate(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		out      *usecase.GenerateOutput
		err      error
		wantCode int
		wantMsg  string
		wantData string
	}{
		{
			name:     "Success",
			out:      &usecase.GenerateOutput{ID: 99, Channel: entity.ChannelEmail, ExpiresAt: expiresAt},
			wantCode: http.StatusCreated,
			wantMsg:  "OTP code has been sent",
			wantData: `{"id":"99","channel":"EMAIL","expires_at":"2026-01-02T03:04:05Z"}`,
		},
		{
			name:     "ActiveCodeExists",
			err:      goerror.NewBusiness("An active OTP code already exists for this operation", goerror.CodeConflict),
			wantCode: http.StatusConflict,
			wantMsg:  "An active OTP code already exists for this operation",
		},
		{
			name:     "DeliveryFailed",
			err:      goerror.NewDelivery(errors.New("smtp: connection reset")),
			wantCode: http.StatusBadGateway,
			wantMsg:  "Failed to deliver OTP code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			var got usecase.GenerateInput
			f := &fakeUsecase{generate: func(in usecase.GenerateInput) (*usecase.GenerateOutput, error) {
				got = in
				return tt.out, tt.err
			}}

			// Act
			rec, env := serve(t, f, "/otp/generate", `{"operation_id":"login"}`)

			// Assert
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if env.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if tt.wantData != "" && string(env.Data) != tt.wantData {
				t.Fatalf("data = %s, want %s", env.Data, tt.wantData)
			}
			if got.UserID != 42 || got.OperationID != "login" {
				t.Fatalf("usecase input = %+v, want caller 42 and operation login", got)
			}
		})
	}
}

func TestHTTPEndpoint_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		valid    bool
		wantCode int
		wantMsg  string
		wantData string
	}{
		{
			name:     "Valid",
			valid:    true,
			wantCode: http.StatusOK,
			wantMsg:  "OTP code is valid",
			wantData: `{"valid":true}`,
		},
		{
			name:     "Invalid",
			valid:    false,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid or expired OTP code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			f := &fakeUsecase{validate: func(in usecase.ValidateInput) (bool, error) {
				if in.UserID != 42 || in.Code != "123456" {
					t.Errorf("usecase input = %+v", in)
				}
				return tt.valid, nil
			}}

			// Act
			rec, env := serve(t, f, "/otp/validate", `{"operation_id":"login","code":"123456"}`)

			// Assert
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if env.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if tt.wantData != "" && string(env.Data) != tt.wantData {
				t.Fatalf("data = %s, want %s", env.Data, tt.wantData)
			}
		})
	}
}

func TestHTTPEndpoint_RequiresToken(t *testing.T) {
	t.Parallel()

	// Arrange
	r := router.NewRouter(router.Config{
		UUID:       staticID{},
		JWT:        staticJWT{},
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, &fakeUsecase{})
	req := httptest.NewRequest(http.MethodPost, "/otp/generate", strings.NewReader(`{"operation_id":"login"}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
