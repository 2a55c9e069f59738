package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/audit/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type ListEventsInput struct {
	UserID int64
	Page   int32
	Size   int32
}

type ListEventsOutput struct {
	Page   int32
	Size   int32
	Total  int64
	Events []entity.Event
}

func (s *Usecase) ListEvents(ctx context.Context, in ListEventsInput) (*ListEventsOutput, error) {
	ctx, span := s.startSpan(ctx, "ListEvents")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermAuditEvents, constant.PermActRead); err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 20 // default limit
	}
	in.Page = max(in.Page, 1)

	events, total, err := s.repoDB.ListEvents(ctx, entity.EventFilter{
		UserID: max(in.UserID, 0),
		Limit:  in.Size,
		Offset: (in.Page - 1) * in.Size,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list audit events", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListEventsOutput{
		Page:   in.Page,
		Size:   in.Size,
		Total:  total,
		Events: events,
	}, nil
}
