package app

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"library-desk/internal/config"
)

func TestApp_RunAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.App.HTTPPort = "0"
	cfg.Fixture.Source = config.SourceEmbedded
	cfg.RateLimit.Enabled = false

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, ready) }()

	var addr net.Addr
	select {
	case addr = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	port := addr.(*net.TCPAddr).Port
	resp, err := http.Get("http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port)) + "/v1/dashboard")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(cfg.App.ShutdownTimeout + 5*time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestApp_NewRejectsInvalidConfig(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.App.HTTPPort = ""

	_, err = New(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "HTTP_PORT")
}
