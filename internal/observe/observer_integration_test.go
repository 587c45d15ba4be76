//go:build integration

package observe

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer starts a real Redis container for testing.
func setupRedisContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	addr := fmt.Sprintf("%s:%s", host, port.Port())

	cleanup := func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	return addr, cleanup
}

func TestRedisObserver_PublishAndSubscribe_RealContainer(t *testing.T) {
	addr, cleanup := setupRedisContainer(t)
	defer cleanup()

	observer, err := NewRedisObserver(&redis.Options{Addr: addr}, "warren.events")
	if err != nil {
		t.Fatalf("failed to create observer: %v", err)
	}
	defer observer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observer.Ping(ctx); err != nil {
		t.Fatalf("redis not reachable: %v", err)
	}

	sub, err := observer.Subscribe(ctx)
	if err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	defer sub.Close()

	time.Sleep(200 * time.Millisecond)
	observer.Event("run_started", map[string]any{"engine": "Checkout"})

	select {
	case envelope := <-sub.Events():
		if envelope.EventType != "run_started" {
			t.Fatalf("expected run_started, got %s", envelope.EventType)
		}
	case err := <-sub.Errors():
		t.Fatalf("unexpected decode error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}
