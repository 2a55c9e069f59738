package delivery

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

type Email struct {
	mailer mail.Mail
}

func NewEmail(mailer mail.Mail) *Email {
	return &Email{mailer: mailer}
}

func (e *Email) Send(ctx context.Context, to account.Contact, code string) error {
	if to.Email == "" {
		return fmt.Errorf("%w: email", ErrMissingAddress)
	}

	return e.mailer.Send(ctx, mail.Message{
		To:       []string{to.Email},
		Subject:  emailSubject,
		TextBody: messageText(code),
	})
}
