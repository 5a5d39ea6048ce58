package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prometheusStub serves the query API with canned vectors and records the
// PromQL expressions it receives.
func prometheusStub(t *testing.T) (*QueryService, *[]string) {
	t.Helper()
	var queries []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.Form.Get("query")
		queries = append(queries, query)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(query, "dialog_turns_total"):
			fmt.Fprint(w, `{"status":"success","data":{"resultType":"vector","result":[{"metric":{},"value":[1700000000,"42"]}]}}`)
		case strings.Contains(query, "dialog_fallbacks_total"):
			fmt.Fprint(w, `{"status":"success","data":{"resultType":"vector","result":[{"metric":{},"value":[1700000000,"7"]}]}}`)
		case strings.Contains(query, "dialog_action_executions_total"):
			fmt.Fprint(w, `{"status":"success","data":{"resultType":"vector","result":[`+
				`{"metric":{"action":"get_balance"},"value":[1700000000,"12"]},`+
				`{"metric":{"action":"execute_transfer"},"value":[1700000000,"3"]}]}}`)
		default:
			fmt.Fprint(w, `{"status":"success","data":{"resultType":"vector","result":[]}}`)
		}
	}))
	t.Cleanup(server.Close)

	svc, err := NewQueryService(server.URL)
	require.NoError(t, err)
	return svc, &queries
}

func TestGetFlowMetrics(t *testing.T) {
	svc, queries := prometheusStub(t)

	fm, err := svc.GetFlowMetrics(context.Background(), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, int64(42), fm.Turns)
	assert.Equal(t, int64(7), fm.Fallbacks)
	assert.Equal(t, map[string]int64{
		"get_balance":      12,
		"execute_transfer": 3,
	}, fm.ActionsByName)

	require.Len(t, *queries, 3)
	for _, q := range *queries {
		assert.Contains(t, q, "[1h]")
	}
	assert.Contains(t, (*queries)[2], "sum by (action)")
}

func TestGetFlowMetricsEmptyVectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","data":{"resultType":"vector","result":[]}}`)
	}))
	t.Cleanup(server.Close)

	svc, err := NewQueryService(server.URL)
	require.NoError(t, err)

	fm, err := svc.GetFlowMetrics(context.Background(), 15*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, fm.Turns)
	assert.Zero(t, fm.Fallbacks)
	assert.Empty(t, fm.ActionsByName)
}

func TestGetFlowMetricsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no rule evaluator", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	svc, err := NewQueryService(server.URL)
	require.NoError(t, err)

	_, err = svc.GetFlowMetrics(context.Background(), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query turns")
}
