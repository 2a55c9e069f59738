package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/audit/entity"
	"github.com/shandysiswandi/otpgate/internal/audit/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP audit trail.
type HTTPEndpoint struct {
	uc uc
}

// ListEvents returns the lifecycle trail, optionally for one user.
// @Summary List OTP lifecycle events
// @Description Returns generated, validated, expired and delivery_failed events, newest first.
// @Tags Audit, Admin
// @Security BearerAuth
// @Produce json
// @Param user_id query int false "Filter by user ID"
// @Param page query int false "Pagination page"
// @Param size query int false "Pagination size (max 100)"
// @Success 200 {object} router.successResponse{data=[]Event} "Event list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /admin/otp-events [get]
func (h *HTTPEndpoint) ListEvents(r *router.Request) (any, error) {
	userID, err := r.GetQueryInt64("user_id")
	if err != nil {
		return nil, err
	}
	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ListEvents(r.Context(), usecase.ListEventsInput{
		UserID: userID,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	return ListEventsResponse{
		Events: lo.Map(out.Events, func(ev entity.Event, _ int) Event {
			return Event{
				ID:          ev.ID,
				EventID:     ev.EventID,
				Type:        ev.Type,
				OTPID:       ev.OTPID,
				UserID:      ev.UserID,
				OperationID: ev.OperationID,
				Metadata:    ev.Metadata,
				OccurredAt:  ev.OccurredAt,
				RecordedAt:  ev.RecordedAt,
			}
		}),
		Page:  out.Page,
		Size:  out.Size,
		Total: out.Total,
	}, nil
}
