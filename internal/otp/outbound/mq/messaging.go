package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	uuid   uid.StringID
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, uuid uid.StringID, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, uuid: uuid, ins: ins}
}

// PublishLifecycle keys messages by user so brokers with ordering keep one
// user's events in order.
func (m *Messaging) PublishLifecycle(ctx context.Context, ev usecase.LifecycleEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishLifecycle")
	defer span.End()
	span.SetAttributes(attribute.String("event.type", ev.Type), attribute.Int64("otp_id", ev.RecordID))

	body, err := json.Marshal(event.OTPLifecycleMessage{
		EventID:     m.uuid.Generate(),
		Type:        ev.Type,
		OTPID:       ev.RecordID,
		UserID:      ev.UserID,
		OperationID: ev.OperationID,
		Channel:     ev.Channel.String(),
		Reason:      ev.Reason,
		OccurredAt:  ev.OccurredAt.UTC(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, event.OTPLifecycleDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(ev.UserID, 10)),
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
