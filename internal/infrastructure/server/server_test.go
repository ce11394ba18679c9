package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/fsbridge/internal/api/grpc"
	"github.com/GriffinCanCode/fsbridge/internal/client"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsbridge/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

type running struct {
	srv      *Server
	httpAddr string
	grpcAddr string
	logs     *observer.ObservedLogs
	cancel   context.CancelFunc
	done     chan error
}

func start(t *testing.T, mutate func(*config.Config)) *running {
	t.Helper()

	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.GRPC.Enabled = true
	if mutate != nil {
		mutate(cfg)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	srv, err := New(cfg, &logging.Logger{Logger: zap.New(core)})
	require.NoError(t, err)

	httpLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	grpcLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	r := &running{
		srv:      srv,
		httpAddr: httpLn.Addr().String(),
		grpcAddr: grpcLn.Addr().String(),
		logs:     logs,
		cancel:   cancel,
		done:     make(chan error, 1),
	}
	go func() { r.done <- srv.Serve(ctx, httpLn, grpcLn) }()
	t.Cleanup(func() { r.stop(t) })
	return r
}

func (r *running) stop(t *testing.T) {
	t.Helper()
	r.cancel()
	select {
	case err, ok := <-r.done:
		if ok {
			assert.NoError(t, err)
			close(r.done)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = "not-a-port"

	_, err := New(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestServerHTTP(t *testing.T) {
	r := start(t, nil)
	root := t.TempDir()
	ctx := context.Background()

	c := client.New("http://" + r.httpAddr)
	path := filepath.Join(root, "docs", "a.txt")
	require.NoError(t, c.WriteFile(ctx, path, []byte("hello")))

	data, err := c.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	list, err := c.Commands(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Services, 1)

	snap := r.srv.Metrics().Snapshot()
	assert.Equal(t, int64(5), snap.BytesWritten)
	assert.Equal(t, int64(5), snap.BytesRead)
}

func TestServerCompressesLargeResponses(t *testing.T) {
	r := start(t, nil)

	req, err := http.NewRequest(http.MethodGet, "http://"+r.httpAddr+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	transport := &http.Transport{DisableCompression: true}
	t.Cleanup(transport.CloseIdleConnections)
	resp, err := (&http.Client{Transport: transport}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
}

func TestServerTraceHeaders(t *testing.T) {
	r := start(t, nil)

	resp, err := http.Get("http://" + r.httpAddr + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
	assert.NotEmpty(t, resp.Header.Get("X-Span-ID"))
}

func TestServerWebSocket(t *testing.T) {
	r := start(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+r.httpAddr+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "system", welcome["type"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "invoke",
		"id":      "w1",
		"command": filesystem.CmdExists,
		"args":    map[string]string{"path": t.TempDir()},
	}))

	var reply map[string]interface{}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "result", reply["type"])
	assert.Equal(t, "w1", reply["id"])
	assert.Equal(t, true, reply["success"])
	assert.Equal(t, true, reply["data"])
}

func TestServerGRPC(t *testing.T) {
	r := start(t, nil)

	c, err := grpc.Dial(r.grpcAddr)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.Invoke(ctx, &types.InvokeRequest{
		Command: filesystem.CmdExists,
		Args:    []byte(`{"path":"/definitely/not/here"}`),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, false, resp.Data)
}

func TestServerGRPCDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.GRPC.Enabled = false
	srv, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, srv.grpc)
}

func TestServerShutdown(t *testing.T) {
	r := start(t, nil)
	r.stop(t)

	assert.NotZero(t, r.logs.FilterMessage("Shutting down server...").Len())

	_, err := http.Get("http://" + r.httpAddr + "/health")
	assert.Error(t, err)
}

func TestServeStopsOnListenerFailure(t *testing.T) {
	cfg := config.Default()
	srv, err := New(cfg, logging.NewNop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(context.Background(), ln, nil) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestMessageLimit(t *testing.T) {
	assert.Equal(t, 4096, messageLimit(1024))
	assert.Equal(t, 1<<31-1, messageLimit(1<<40))
}
