package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/audit/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type ucConsumer interface {
	RecordEvent(ctx context.Context, in usecase.RecordEventInput) error
}

type uc interface {
	ucConsumer

	ListEvents(ctx context.Context, in usecase.ListEventsInput) (*usecase.ListEventsOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// need authenticated & authorization
	r.GET("/admin/otp-events", end.ListEvents)
}
