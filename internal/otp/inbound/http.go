package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	Generate(ctx context.Context, in usecase.GenerateInput) (*usecase.GenerateOutput, error)
	Validate(ctx context.Context, in usecase.ValidateInput) (bool, error)

	GetConfig(ctx context.Context) (*usecase.ConfigOutput, error)
	UpdateConfig(ctx context.Context, in usecase.UpdateConfigInput) (*usecase.ConfigOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// need authenticated
	r.POST("/otp/generate", end.Generate)
	r.POST("/otp/validate", end.Validate)

	// need authenticated & authorization
	r.GET("/admin/otp-config", end.GetConfig)
	r.PUT("/admin/otp-config", end.UpdateConfig)
}
