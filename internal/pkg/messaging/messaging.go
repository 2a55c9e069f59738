package messaging

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"
)

var (
	// ErrTopicRequired is returned when publishing or consuming without a topic.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrGroupRequired is returned when a driver needs a consumer group and none was given.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
)

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg OutgoingMessage) error
}

// Consumer consumes messages from a topic. Consume blocks until ctx is done
// or the underlying subscription fails.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. With auto-ack enabled a nil error
// acks the message and a non-nil error nacks it.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	Body []byte

	// Key is used by Kafka for partitioning and as the Pub/Sub ordering key.
	Key []byte

	Headers map[string]string
}

// Message is a received message.
type Message interface {
	Body() []byte
	Header(key string) string
	ID() string
	Topic() string
	Timestamp() time.Time

	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}

// responder makes Ack/Nack idempotent across drivers.
type responder struct {
	done atomic.Bool
}

func (r *responder) respond(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.done.Swap(true) {
		return nil
	}
	if fn == nil {
		return nil
	}
	return fn()
}

func (r *responder) responded() bool { return r.done.Load() }

func settle(ctx context.Context, msg Message, handlerErr error) error {
	if handlerErr == nil {
		return msg.Ack(ctx)
	}
	return msg.Nack(ctx)
}

func copyHeaders(h map[string]string) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
