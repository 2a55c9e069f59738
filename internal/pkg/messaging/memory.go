package messaging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	memoryDefaultBuffer  = 256
	memoryDefaultGroup   = "default"
	memoryMaxDeliveries  = 3
	memoryRequeueBackoff = 50 * time.Millisecond
)

// MemoryConfig configures the in-process driver.
type MemoryConfig struct {
	// Buffer is the per-group queue size.
	Buffer int
}

// Memory is an in-process broker. Every consumer group of a topic receives
// a copy of each message and consumers sharing a group compete for it.
// Messages published to a topic without consumers are dropped.
type Memory struct {
	buffer int
	seq    atomic.Uint64

	mu     sync.RWMutex
	groups map[string]map[string]*memoryGroup
	closed bool
	done   chan struct{}
}

type memoryGroup struct {
	queue chan *memoryMessage
	refs  int
	gone  chan struct{}
}

// NewMemory constructs the in-process driver.
func NewMemory(cfg MemoryConfig) *Memory {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = memoryDefaultBuffer
	}

	return &Memory{
		buffer: buffer,
		groups: map[string]map[string]*memoryGroup{},
		done:   make(chan struct{}),
	}
}

// Close stops every consumer. Pending messages are discarded.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

// Publish copies msg into the queue of every group subscribed to topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return io.ErrClosedPipe
	}
	targets := make([]*memoryGroup, 0, len(m.groups[topic]))
	for _, g := range m.groups[topic] {
		targets = append(targets, g)
	}
	m.mu.RUnlock()

	id := strconv.FormatUint(m.seq.Add(1), 10)
	now := time.Now()
	for _, g := range targets {
		mm := &memoryMessage{
			id:        id,
			topic:     topic,
			body:      append([]byte(nil), msg.Body...),
			headers:   copyHeaders(msg.Headers),
			timestamp: now,
			delivery:  1,
			group:     g,
			done:      m.done,
		}

		select {
		case g.queue <- mm:
		case <-g.gone:
		case <-m.done:
			return io.ErrClosedPipe
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// Consume blocks until ctx is done or the driver is closed.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	name := memoryGroupName(co)

	g, err := m.join(topic, name)
	if err != nil {
		return err
	}
	defer m.leave(topic, name)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case mm := <-g.queue:
					//nolint:errcheck // logged by dispatch
					_ = dispatch(ctx, DriverMemory, handler, mm, &mm.responder, co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	select {
	case <-m.done:
		return io.ErrClosedPipe
	default:
		return ctx.Err()
	}
}

func (m *Memory) join(topic, name string) (*memoryGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, io.ErrClosedPipe
	}

	byName, ok := m.groups[topic]
	if !ok {
		byName = map[string]*memoryGroup{}
		m.groups[topic] = byName
	}

	g, ok := byName[name]
	if !ok {
		g = &memoryGroup{queue: make(chan *memoryMessage, m.buffer), gone: make(chan struct{})}
		byName[name] = g
	}
	g.refs++

	return g, nil
}

func (m *Memory) leave(topic, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[topic][name]
	if !ok {
		return
	}

	g.refs--
	if g.refs > 0 {
		return
	}

	close(g.gone)
	delete(m.groups[topic], name)
	if len(m.groups[topic]) == 0 {
		delete(m.groups, topic)
	}
}

func memoryGroupName(co consumeOptions) string {
	for _, name := range []string{co.group, co.queueGroup, co.channel, co.subscription} {
		if name != "" {
			return name
		}
	}
	return memoryDefaultGroup
}

type memoryMessage struct {
	responder

	id        string
	topic     string
	body      []byte
	headers   map[string]string
	timestamp time.Time
	delivery  int

	group *memoryGroup
	done  <-chan struct{}
}

func (mm *memoryMessage) Body() []byte { return mm.body }

func (mm *memoryMessage) Header(key string) string { return mm.headers[key] }

func (mm *memoryMessage) ID() string { return mm.id }

func (mm *memoryMessage) Topic() string { return mm.topic }

func (mm *memoryMessage) Timestamp() time.Time { return mm.timestamp }

func (mm *memoryMessage) Ack(ctx context.Context) error { return mm.respond(ctx, nil) }

// Nack requeues the message until it has been delivered memoryMaxDeliveries times.
func (mm *memoryMessage) Nack(ctx context.Context) error {
	return mm.respond(ctx, func() error {
		if mm.delivery >= memoryMaxDeliveries {
			slog.WarnContext(ctx, "dropping message after max deliveries", "topic", mm.topic, "id", mm.id, "deliveries", mm.delivery)
			return nil
		}

		next := &memoryMessage{
			id:        mm.id,
			topic:     mm.topic,
			body:      mm.body,
			headers:   mm.headers,
			timestamp: mm.timestamp,
			delivery:  mm.delivery + 1,
			group:     mm.group,
			done:      mm.done,
		}

		go func() {
			timer := time.NewTimer(memoryRequeueBackoff)
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-mm.done:
				return
			}

			select {
			case mm.group.queue <- next:
			case <-mm.group.gone:
			case <-mm.done:
			}
		}()
		return nil
	})
}
