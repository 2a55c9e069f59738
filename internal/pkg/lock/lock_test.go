package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, nat.Port("6379/tcp"))
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedis_AcquireRelease(t *testing.T) {
	// Arrange
	client := newRedisClient(t)
	locker := NewRedis(client, uid.NewUUID())
	ctx := context.Background()

	// Act
	first, err := locker.Acquire(ctx, "otp:generate:1:login", 5*time.Second)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	_, errSecond := locker.Acquire(ctx, "otp:generate:1:login", 5*time.Second)
	errRelease := first.Release(ctx)
	third, errThird := locker.Acquire(ctx, "otp:generate:1:login", 5*time.Second)

	// Assert
	if !errors.Is(errSecond, ErrNotAcquired) {
		t.Fatalf("second acquire err = %v, want ErrNotAcquired", errSecond)
	}
	if errRelease != nil {
		t.Fatalf("release: %v", errRelease)
	}
	if errThird != nil {
		t.Fatalf("third acquire: %v", errThird)
	}
	_ = third.Release(ctx)
}

func TestRedis_ReleaseDoesNotStealForeignLease(t *testing.T) {
	// Arrange
	client := newRedisClient(t)
	locker := NewRedis(client, uid.NewUUID())
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "otp:sweeper", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	fresh, err := locker.Acquire(ctx, "otp:sweeper", 5*time.Second)
	if err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}

	// Act
	if err := stale.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}

	// Assert
	val, err := client.Get(ctx, "lock:otp:sweeper").Result()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != fresh.token {
		t.Fatalf("fresh lease was released by the stale holder")
	}
}

func TestWith_Exclusive(t *testing.T) {
	// Arrange
	client := newRedisClient(t)
	locker := NewRedis(client, uid.NewUUID())
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		entered  atomic.Int32
		rejected atomic.Int32
		start    = make(chan struct{})
	)

	// Act
	for range 10 {
		wg.Go(func() {
			<-start
			err := With(ctx, locker, "k", 5*time.Second, func(context.Context) error {
				entered.Add(1)
				time.Sleep(200 * time.Millisecond)
				return nil
			})
			if errors.Is(err, ErrNotAcquired) {
				rejected.Add(1)
			}
		})
	}
	close(start)
	wg.Wait()

	// Assert
	if entered.Load()+rejected.Load() != 10 {
		t.Fatalf("entered=%d rejected=%d", entered.Load(), rejected.Load())
	}
	if entered.Load() < 1 {
		t.Fatalf("expected at least one holder")
	}
	if n, _ := client.Exists(ctx, "lock:k").Result(); n != 0 {
		t.Fatalf("lock key must be released")
	}
}
