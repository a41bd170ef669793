package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/turtacn/sds-wizard/internal/config"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

func startServer(t *testing.T, opts ...Option) (*Server, healthpb.HealthClient) {
	t.Helper()
	srv, err := NewServer(config.GRPCConfig{Port: 0}, opts...)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	conn, err := grpc.Dial(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	return srv, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	var (
		resp *healthpb.HealthCheckResponse
		err  error
	)
	require.Eventually(t, func() bool {
		resp, err = c.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
		return status.Code(err) != codes.Unavailable
	}, 2*time.Second, 20*time.Millisecond)
	require.NoError(t, err)
	return resp.Status
}

func TestServer_ServesHealth(t *testing.T) {
	_, client := startServer(t)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
}

func TestServer_SetHealthTracksComponents(t *testing.T) {
	srv, client := startServer(t)

	srv.SetHealth("postgres", true)
	srv.SetHealth("redis", false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, "postgres"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, "redis"))

	srv.SetHealth("redis", true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
}

func TestServer_UnknownComponent(t *testing.T) {
	_, client := startServer(t)
	check(t, client, "")

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "kafka"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_StopLogsGracefulShutdown(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv, client := startServer(t, WithLogger(logging.NewLoggerFromCore(core)))
	check(t, client, "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.Equal(t, 1, logs.FilterMessage("grpc server stopped gracefully").Len())
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv, err := NewServer(config.GRPCConfig{Port: 0})
	require.NoError(t, err)
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestServer_DoubleStart(t *testing.T) {
	srv, client := startServer(t)
	check(t, client, "")
	assert.Error(t, srv.Start())
}

func TestRecoveryUnaryInterceptor(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	interceptor := recoveryUnaryInterceptor(logging.NewLoggerFromCore(core))

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Boom"},
		func(context.Context, interface{}) (interface{}, error) { panic("boom") })
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1, logs.Len())

	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Ok"},
		func(context.Context, interface{}) (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestLoggingUnaryInterceptor_SkipsHealthChecks(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	interceptor := loggingUnaryInterceptor(logging.NewLoggerFromCore(core))
	handler := func(context.Context, interface{}) (interface{}, error) { return nil, nil }

	_, _ = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	assert.Equal(t, 0, logs.Len())

	_, _ = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, handler)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "grpc request", logs.All()[0].Message)
}

//Personal.AI order the ending
