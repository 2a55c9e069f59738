// Package delivery sends OTP codes to users. Each channel has one Sender and
// the Dispatcher picks it by the channel of the settings snapshot.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrChannelNotConfigured = errors.New("delivery: channel is not configured")
	ErrMissingAddress       = errors.New("delivery: contact has no address for channel")
)

const (
	emailSubject = "Your OTP Code"
	textTemplate = "Your OTP code is: %s"
)

func messageText(code string) string {
	return fmt.Sprintf(textTemplate, code)
}

// Sender delivers one code to one contact over a single channel.
type Sender interface {
	Send(ctx context.Context, to account.Contact, code string) error
}

// Error is returned for every failed delivery.
type Error struct {
	Channel entity.Channel
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("delivery via %s failed: %v", e.Channel, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Dispatcher struct {
	senders map[entity.Channel]Sender
	ins     instrument.Instrumentation
}

func NewDispatcher(senders map[entity.Channel]Sender, ins instrument.Instrumentation) *Dispatcher {
	cp := make(map[entity.Channel]Sender, len(senders))
	for ch, s := range senders {
		if s != nil {
			cp[ch] = s
		}
	}
	return &Dispatcher{senders: cp, ins: ins}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ch entity.Channel, to account.Contact, code string) error {
	ctx, span := d.ins.Tracer("otp.outbound.delivery").Start(ctx, "Dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("channel", ch.String()), attribute.Int64("user_id", to.UserID))

	sender, ok := d.senders[ch]
	if !ok {
		err := &Error{Channel: ch, Err: ErrChannelNotConfigured}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := sender.Send(ctx, to, code); err != nil {
		derr := &Error{Channel: ch, Err: err}
		span.RecordError(derr)
		span.SetStatus(codes.Error, derr.Error())
		return derr
	}

	return nil
}
