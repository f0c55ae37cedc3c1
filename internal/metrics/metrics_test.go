package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()
	m.LoginsTotal.WithLabelValues("success").Inc()
	m.LoginsTotal.WithLabelValues("success").Inc()
	m.SweepDeletedTotal.Add(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SweepDeletedTotal))
}

func TestHandler_ServesText(t *testing.T) {
	m := New()
	m.ResetRequestsTotal.WithLabelValues("issued").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `coffee_password_reset_requests_total{result="issued"} 1`)
}
