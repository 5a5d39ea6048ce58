package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder(t *testing.T) {
	recorder := NewPrometheusRecorder()

	recorder.ObserveTurn("greeting", "show_balance", "check_balance", false, 50*time.Millisecond)
	recorder.ObserveTurn("greeting", "greeting", "unknown", true, 10*time.Millisecond)
	recorder.ObserveAction("lookup_balance", "success", 5*time.Millisecond)
	recorder.ObserveAction("lookup_balance", "error", 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		recorder.turnsTotal.WithLabelValues("greeting", "show_balance", "check_balance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		recorder.fallbacksTotal.WithLabelValues("greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		recorder.actionsTotal.WithLabelValues("lookup_balance", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		recorder.actionsTotal.WithLabelValues("lookup_balance", "error")))
}
