package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDispatch(t *testing.T) {
	c := NewCollector(DefaultConfig())

	c.ObserveDispatch("property", OutcomeOK, time.Millisecond)
	c.ObserveDispatch("property", OutcomeOK, time.Millisecond)
	c.ObserveDispatch("function", OutcomeConfigError, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(c.DispatchTotal.WithLabelValues("property", OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.DispatchTotal.WithLabelValues("function", OutcomeConfigError)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(c.DispatchDuration))
}

func TestObserveRemote(t *testing.T) {
	c := NewCollector(DefaultConfig())

	c.ObserveRemote("grpc", "get", nil)
	c.ObserveRemote("grpc", "get", errors.New("boom"))
	c.PeerConnected(1)

	assert.InDelta(t, 1, testutil.ToFloat64(c.RemoteTotal.WithLabelValues("grpc", "get", OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.RemoteTotal.WithLabelValues("grpc", "get", OutcomeError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Peers), 0)
}

func TestNilCollector(t *testing.T) {
	var c *Collector

	require.NotPanics(t, func() {
		c.ObserveDispatch("property", OutcomeOK, time.Second)
		c.ObserveRemote("ws", "set", nil)
		c.PeerConnected(-1)
	})
}

func TestHandler(t *testing.T) {
	c := NewCollector(Config{Namespace: "test"})
	c.ObserveDispatch("property", OutcomeOK, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_dispatch_total"))
}
