package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	// ErrNSQProducerAddrRequired is returned when publishing without an nsqd address.
	ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")
	// ErrNSQConsumerAddrsRequired is returned when no nsqd or lookupd addresses are configured.
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq consumer nsqd/lookupd addresses are required")
)

// NSQConfig configures the NSQ driver.
type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string
}

// NSQ is a messaging implementation backed by NSQ. NSQ has no message
// headers, so bodies travel inside a small JSON envelope.
type NSQ struct {
	producer *nsq.Producer

	nsqdAddrs    []string
	lookupdAddrs []string

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

type nsqEnvelope struct {
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

// NewNSQ constructs an NSQ client.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{
		nsqdAddrs:    append([]string{}, cfg.ConsumerNSQDAddrs...),
		lookupdAddrs: append([]string{}, cfg.ConsumerLookupdAddrs...),
	}

	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

// Close stops consumers and the producer.
func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := append([]*nsq.Consumer{}, n.consumers...)
	n.mu.Unlock()

	for _, c := range consumers {
		stopNSQConsumer(c)
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

// Publish sends msg to topic.
func (n *NSQ) Publish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if n.producer == nil {
		return ErrNSQProducerAddrRequired
	}

	body, err := json.Marshal(nsqEnvelope{Headers: msg.Headers, Body: msg.Body})
	if err != nil {
		return fmt.Errorf("messaging: nsq encode: %w", err)
	}

	if err := n.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return nil
}

// Consume reads topic through the configured channel.
func (n *NSQ) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if len(n.nsqdAddrs) == 0 && len(n.lookupdAddrs) == 0 {
		return ErrNSQConsumerAddrsRequired
	}

	co := newConsumeOptions(opts...)
	if co.channel == "" {
		return ErrGroupRequired
	}

	cfg := nsq.NewConfig()
	cfg.MaxInFlight = max(co.maxInFlight, co.concurrency)

	consumer, err := nsq.NewConsumer(topic, co.channel, cfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()

		wrapped, derr := newNSQMessage(topic, m)
		if derr != nil {
			// a body that is not an envelope can never be processed
			m.Finish()
			return derr
		}
		return dispatch(ctx, DriverNSQ, handler, wrapped, &wrapped.responder, co.autoAck)
	}), co.concurrency)

	if err := n.track(consumer); err != nil {
		stopNSQConsumer(consumer)
		return err
	}

	if len(n.lookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.lookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.nsqdAddrs)
	}
	if err != nil {
		stopNSQConsumer(consumer)
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		stopNSQConsumer(consumer)
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

func (n *NSQ) track(c *nsq.Consumer) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return io.ErrClosedPipe
	}
	n.consumers = append(n.consumers, c)
	return nil
}

func stopNSQConsumer(c *nsq.Consumer) {
	c.Stop()
	<-c.StopChan
}

type nsqMessage struct {
	responder

	topic string
	env   nsqEnvelope
	msg   *nsq.Message
}

func newNSQMessage(topic string, m *nsq.Message) (*nsqMessage, error) {
	var env nsqEnvelope
	if err := json.Unmarshal(m.Body, &env); err != nil {
		return nil, fmt.Errorf("messaging: nsq decode: %w", err)
	}
	return &nsqMessage{topic: topic, env: env, msg: m}, nil
}

func (m *nsqMessage) Body() []byte { return m.env.Body }

func (m *nsqMessage) Header(key string) string { return m.env.Headers[key] }

func (m *nsqMessage) ID() string { return string(m.msg.ID[:]) }

func (m *nsqMessage) Topic() string { return m.topic }

func (m *nsqMessage) Timestamp() time.Time { return time.Unix(0, m.msg.Timestamp) }

func (m *nsqMessage) Ack(ctx context.Context) error {
	return m.respond(ctx, func() error {
		m.msg.Finish()
		return nil
	})
}

func (m *nsqMessage) Nack(ctx context.Context) error {
	return m.respond(ctx, func() error {
		m.msg.Requeue(-1)
		return nil
	})
}
