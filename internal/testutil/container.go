package testutil

import (
	"context"
	"net"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const redisImage = "redis:7-alpine"

// StartRedisContainer runs a throwaway Redis container for the test and
// returns its address. The container is terminated on cleanup.
func StartRedisContainer(t TestingTB) (string, bool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Logf("failed to start redis container: %v", err)
		return "", false
	}
	registerCleanup(t, func() {
		stopCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
		defer stop()
		if err := container.Terminate(stopCtx); err != nil {
			t.Logf("warning: failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Logf("failed to get redis container host: %v", err)
		return "", false
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Logf("failed to get redis container port: %v", err)
		return "", false
	}

	addr := net.JoinHostPort(host, port.Port())
	t.Logf("Redis container started at %s", addr)
	return addr, true
}
