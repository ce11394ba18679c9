package client

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bridgehttp "github.com/GriffinCanCode/fsbridge/internal/api/http"
	"github.com/GriffinCanCode/fsbridge/internal/api/middleware"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/fsbridge/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsbridge/internal/types"
	"github.com/GriffinCanCode/fsbridge/tests/helpers/testutil"
)

const maxBody = 1 << 20

func newBridge(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := testutil.NewRegistry(t, filesystem.Options{})
	router := gin.New()
	router.Use(middleware.BodyLimit(maxBody))
	bridgehttp.NewHandlers(registry, nil, nil, maxBody).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func fastRetry() Option {
	return WithRetry(2, time.Millisecond, 5*time.Millisecond)
}

func TestClientCommands(t *testing.T) {
	root := testutil.TempTree(t, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	})
	c := New(newBridge(t).URL, fastRetry())
	ctx := context.Background()

	t.Run("read", func(t *testing.T) {
		data, err := c.ReadFile(ctx, filepath.Join(root, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), data)
	})

	t.Run("write binary and read back", func(t *testing.T) {
		payload := []byte{0, 1, 2, 253, 254, 255}
		path := filepath.Join(root, "new", "deep", "bin.dat")
		require.NoError(t, c.WriteFile(ctx, path, payload))

		onDisk, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, onDisk)

		data, err := c.ReadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("write empty", func(t *testing.T) {
		path := filepath.Join(root, "empty.txt")
		require.NoError(t, c.WriteFile(ctx, path, nil))

		data, err := c.ReadFile(ctx, path)
		require.NoError(t, err)
		assert.NotNil(t, data)
		assert.Empty(t, data)
	})

	t.Run("readdir and stat", func(t *testing.T) {
		entries, err := c.ReadDir(ctx, filepath.Join(root, "sub"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "b.txt", entries[0].Name)
		assert.Equal(t, uint64(4), entries[0].Size)
		assert.NotNil(t, entries[0].MtimeMs)

		st, err := c.Stat(ctx, filepath.Join(root, "sub"))
		require.NoError(t, err)
		assert.True(t, st.IsDirectory)
		assert.Equal(t, "sub", st.Name)
	})

	t.Run("empty directory lists as empty slice", func(t *testing.T) {
		dir := filepath.Join(root, "hollow")
		require.NoError(t, c.Mkdir(ctx, dir))

		entries, err := c.ReadDir(ctx, dir)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("exists and remove", func(t *testing.T) {
		target := filepath.Join(root, "sub")
		ok, err := c.Exists(ctx, target)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, c.Remove(ctx, target))
		ok, err = c.Exists(ctx, target)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, c.Remove(ctx, target), "removing a missing path succeeds")
	})

	t.Run("base dir", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		dir, err := c.GetBaseDir(ctx)
		require.NoError(t, err)
		assert.Equal(t, wd, dir)
	})

	t.Run("commands", func(t *testing.T) {
		list, err := c.Commands(ctx)
		require.NoError(t, err)
		assert.Equal(t, 8, list.Stats.TotalCommands)
	})
}

func TestCommandErrors(t *testing.T) {
	root := t.TempDir()
	c := New(newBridge(t).URL, fastRetry())
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := c.ReadFile(ctx, filepath.Join(root, "nope.txt"))
		require.Error(t, err)

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, filesystem.CmdReadFile, cmdErr.Command)
		assert.Equal(t, types.KindNotFound, cmdErr.Kind)
		assert.Equal(t, http.StatusOK, cmdErr.Status)
		assert.NotEmpty(t, cmdErr.Message)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.NotErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("unknown command", func(t *testing.T) {
		err := c.Invoke(ctx, "fs_chmod", map[string]string{"path": root}, nil)

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, types.KindUnknownCommand, cmdErr.Kind)
		assert.Equal(t, http.StatusNotFound, cmdErr.Status)
	})

	t.Run("missing argument", func(t *testing.T) {
		err := c.Invoke(ctx, filesystem.CmdStat, nil, nil)

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, types.KindInvalidArgs, cmdErr.Kind)
		assert.Equal(t, http.StatusBadRequest, cmdErr.Status)
	})

	t.Run("command errors keep the breaker closed", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			_, err := c.Stat(ctx, filepath.Join(root, "missing"))
			require.Error(t, err)
		}
		assert.Equal(t, resilience.StateClosed, c.BreakerState())
	})
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":true}`))
	}))
	t.Cleanup(srv.Close)

	ok, err := New(srv.URL, fastRetry()).Exists(context.Background(), "/x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientSendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	c.SetHeader("X-Trace-ID", "trace-1")
	require.NoError(t, c.Mkdir(context.Background(), "/tmp/x"))

	assert.Contains(t, got.Get(HeaderRequestID), "req_")
	assert.Equal(t, "trace-1", got.Get("X-Trace-ID"))
	assert.Equal(t, userAgent, got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestBreakerOpensOnTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url,
		WithRetry(0, time.Millisecond, time.Millisecond),
		WithBreaker(resilience.Settings{
			Timeout:     time.Minute,
			ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 2 },
		}),
	)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Exists(ctx, "/x")
		require.Error(t, err)
		var cmdErr *CommandError
		assert.False(t, errors.As(err, &cmdErr))
	}
	assert.Equal(t, resilience.StateOpen, c.BreakerState())

	_, err := c.Exists(ctx, "/x")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestClientRejectsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).Exists(context.Background(), "/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), filesystem.CmdExists)
}

func TestRateLimitHonorsContext(t *testing.T) {
	c := New("http://127.0.0.1:1", WithRateLimit(0.001))
	require.NoError(t, c.Limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Exists(ctx, "/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
