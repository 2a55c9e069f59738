package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/audit/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// OTPLifecycleAudit acks undecodable bodies so a poison message is not
// redelivered forever.
func (h *MQHandler) OTPLifecycleAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "OTPLifecycleAudit")
	defer span.End()

	body := msg.Body()
	slog.DebugContext(ctx, "consume: otp lifecycle audit", "msg_id", msg.ID(), "msg_body", string(body))

	var payload event.OTPLifecycleMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp lifecycle", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.RecordEvent(ctx, usecase.RecordEventInput{
		EventID:     payload.EventID,
		Type:        payload.Type,
		OTPID:       payload.OTPID,
		UserID:      payload.UserID,
		OperationID: payload.OperationID,
		Channel:     payload.Channel,
		Reason:      payload.Reason,
		OccurredAt:  payload.OccurredAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to record otp lifecycle event", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
