package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	reg.FlowCompleted("signup", "success")
	reg.FlowCompleted("signup", "success")
	reg.FlowCompleted("signup", "error")
	reg.RequestCompleted("unregister", "not_found")

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.flows.WithLabelValues("signup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.flows.WithLabelValues("signup", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.requests.WithLabelValues("unregister", "not_found")))
}

func TestRegistry_Handler(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	reg.FlowCompleted("load", "success")

	w := httptest.NewRecorder()
	reg.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `activity_board_flows_total{flow="load",outcome="success"} 1`)
}
