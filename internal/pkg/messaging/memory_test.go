package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func startConsumer(t *testing.T, m *Memory, topic string, h Handler, opts ...ConsumeOption) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Consume(ctx, topic, h, opts...) }()

	// wait until the group is registered so Publish does not drop
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		m.mu.RLock()
		n := len(m.groups[topic])
		m.mu.RUnlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	return cancel, errCh
}

func TestMemory_FanOutAcrossGroups(t *testing.T) {
	// Arrange
	m := NewMemory(MemoryConfig{})
	t.Cleanup(func() { _ = m.Close() })

	var mu sync.Mutex
	got := map[string]string{}
	var wg sync.WaitGroup
	wg.Add(2)

	handler := func(group string) Handler {
		return func(_ context.Context, msg Message) error {
			mu.Lock()
			got[group] = string(msg.Body()) + "|" + msg.Header("cID")
			mu.Unlock()
			wg.Done()
			return nil
		}
	}

	cancelA, _ := startConsumer(t, m, "otp_lifecycle", handler("a"), WithGroup("a"))
	defer cancelA()
	cancelB, _ := startConsumer(t, m, "otp_lifecycle", handler("b"), WithQueueGroup("b"))
	defer cancelB()

	for {
		m.mu.RLock()
		n := len(m.groups["otp_lifecycle"])
		m.mu.RUnlock()
		if n == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Act
	err := m.Publish(context.Background(), "otp_lifecycle", OutgoingMessage{
		Body:    []byte("hello"),
		Headers: map[string]string{"cID": "c-1"},
	})
	wg.Wait()

	// Assert
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got["a"] != "hello|c-1" || got["b"] != "hello|c-1" {
		t.Fatalf("got = %v", got)
	}
}

func TestMemory_NackRedelivers(t *testing.T) {
	// Arrange
	m := NewMemory(MemoryConfig{})
	t.Cleanup(func() { _ = m.Close() })

	deliveries := make(chan string, memoryMaxDeliveries+1)
	h := func(_ context.Context, msg Message) error {
		deliveries <- msg.ID()
		if len(deliveries) < 2 {
			return errors.New("boom")
		}
		return nil
	}
	cancel, _ := startConsumer(t, m, "t", h)
	defer cancel()

	// Act
	if err := m.Publish(context.Background(), "t", OutgoingMessage{Body: []byte("x")}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// Assert
	first := <-deliveries
	select {
	case second := <-deliveries:
		if first != second {
			t.Fatalf("redelivered id = %q, want %q", second, first)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("message was not redelivered")
	}
}

func TestMemory_PanicIsRecovered(t *testing.T) {
	// Arrange
	m := NewMemory(MemoryConfig{})
	t.Cleanup(func() { _ = m.Close() })

	calls := make(chan struct{}, memoryMaxDeliveries)
	h := func(context.Context, Message) error {
		calls <- struct{}{}
		panic("handler exploded")
	}
	cancel, errCh := startConsumer(t, m, "t", h)

	// Act
	if err := m.Publish(context.Background(), "t", OutgoingMessage{Body: []byte("x")}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	<-calls
	cancel()

	// Assert
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Consume() error = %v, want context.Canceled", err)
	}
}

func TestMemory_PublishWithoutConsumersIsDropped(t *testing.T) {
	// Arrange
	m := NewMemory(MemoryConfig{Buffer: 1})
	t.Cleanup(func() { _ = m.Close() })

	// Act
	err := m.Publish(context.Background(), "nobody", OutgoingMessage{Body: []byte("x")})

	// Assert
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func TestMemory_Validation(t *testing.T) {
	m := NewMemory(MemoryConfig{})
	ctx := context.Background()

	if err := m.Publish(ctx, "", OutgoingMessage{}); !errors.Is(err, ErrTopicRequired) {
		t.Fatalf("Publish(\"\") error = %v", err)
	}
	if err := m.Consume(ctx, "t", nil); !errors.Is(err, ErrHandlerRequired) {
		t.Fatalf("Consume(nil) error = %v", err)
	}

	_ = m.Close()
	if err := m.Publish(ctx, "t", OutgoingMessage{}); err == nil {
		t.Fatalf("Publish() after Close error = nil")
	}
}

func TestNewFromDriver(t *testing.T) {
	mq, err := NewFromDriver(context.Background(), " Memory ", FactoryOptions{})
	if err != nil {
		t.Fatalf("NewFromDriver(memory) error = %v", err)
	}
	if _, ok := mq.(*Memory); !ok {
		t.Fatalf("NewFromDriver(memory) = %T", mq)
	}

	if _, err := NewFromDriver(context.Background(), "rabbitmq", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("NewFromDriver(rabbitmq) error = %v", err)
	}
	if _, err := NewFromDriver(context.Background(), DriverKafka, FactoryOptions{}); !errors.Is(err, ErrKafkaBrokersRequired) {
		t.Fatalf("NewFromDriver(kafka) error = %v", err)
	}
}
