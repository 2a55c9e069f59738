package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	Profile(ctx context.Context) (*usecase.ProfileOutput, error)

	UserList(ctx context.Context) ([]entity.User, error)
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Auth
	r.POST("/register", end.Register)
	r.POST("/login", end.Login)

	// need authenticated
	r.GET("/me", end.Profile)

	// need authenticated & authorization
	r.GET("/admin/users", end.UserList)
	r.DELETE("/admin/users/:id", end.UserDelete)
}
