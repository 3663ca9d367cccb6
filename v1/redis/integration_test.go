package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

// TestRedisLock verifies owner-checked lock semantics against a real server.
func TestRedisLock(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	host, port, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	var client *RedisClient
	app := fx.New(
		FXModule,
		fx.Provide(func() Config { return Config{Host: host, Port: port, KeyPrefix: "test:"} }),
		fx.Populate(&client),
	)
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	t.Run("second owner is refused until release", func(t *testing.T) {
		key := client.Key("upload:p1")
		first, err := client.TryLock(ctx, key, 5*time.Second)
		require.NoError(t, err)

		_, err = client.TryLock(ctx, key, 5*time.Second)
		assert.ErrorIs(t, err, ErrLockNotAcquired)

		require.NoError(t, first.Refresh(ctx))
		require.NoError(t, first.Release(ctx))

		second, err := client.TryLock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, second.Release(ctx))
	})

	t.Run("expired owner cannot release successor", func(t *testing.T) {
		key := client.Key("upload:p2")
		stale, err := client.TryLock(ctx, key, 100*time.Millisecond)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			fresh, err := client.TryLock(ctx, key, 5*time.Second)
			if err != nil {
				return false
			}
			assert.ErrorIs(t, stale.Release(ctx), ErrLockNotHeld)
			assert.ErrorIs(t, stale.Refresh(ctx), ErrLockNotHeld)
			require.NoError(t, fresh.Release(ctx))
			return true
		}, 5*time.Second, 50*time.Millisecond)
	})
}

func initializeRedis(ctx context.Context, t *testing.T) (string, int, testcontainers.Container) {
	hostPort, err := getFreePort()
	require.NoError(t, err)

	containerInstance, err := createRedisContainer(ctx, hostPort)
	require.NoError(t, err)

	port, err := containerInstance.MappedPort(ctx, "6379")
	require.NoError(t, err)

	host, err := containerInstance.Host(ctx)
	require.NoError(t, err)

	// Wait for Redis to be ready
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port.Port()), 2*time.Second)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 30*time.Second, 500*time.Millisecond, "Redis port not ready")

	return host, port.Int(), containerInstance
}

func createRedisContainer(ctx context.Context, hostPort string) (testcontainers.Container, error) {
	portBindings := nat.PortMap{
		"6379/tcp": []nat.PortBinding{{HostPort: hostPort}},
	}

	req := testcontainers.ContainerRequest{
		Image: "redis:7-alpine",
		ExposedPorts: []string{
			"6379/tcp",
		},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	}

	var containerInstance testcontainers.Container
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		containerInstance, lastErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if lastErr == nil {
			return containerInstance, nil
		}

		if strings.Contains(lastErr.Error(), "docker.sock") {
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}

		break
	}

	return nil, fmt.Errorf("failed to start Redis container after 3 attempts: %w", lastErr)
}

func getFreePort() (string, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return "", err
	}
	defer l.Close()
	addr := l.Addr().(*net.TCPAddr)
	return strconv.Itoa(addr.Port), nil
}
