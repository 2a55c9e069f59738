package mail

import (
	"context"
	"io"
)

// Message is a plain text email.
type Message struct {
	// From overrides the configured sender when set.
	From     string
	To       []string
	Subject  string
	TextBody string
}

// Mail sends a message. Implementations must honour ctx cancellation.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
