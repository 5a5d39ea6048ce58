package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// FlowMetrics aggregates engine activity over a time window.
type FlowMetrics struct {
	Turns         int64            `json:"turns"`
	Fallbacks     int64            `json:"fallbacks"`
	ActionsByName map[string]int64 `json:"actions_by_name"`
}

// QueryService queries recorded dialog metrics back out of Prometheus, for
// operational reporting.
type QueryService struct {
	queryAPI v1.API
}

// NewQueryService creates a query service against a Prometheus server.
func NewQueryService(prometheusURL string) (*QueryService, error) {
	client, err := api.NewClient(api.Config{Address: prometheusURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}
	return &QueryService{queryAPI: v1.NewAPI(client)}, nil
}

// GetFlowMetrics aggregates turn, fallback, and action counts over the given
// lookback window.
func (q *QueryService) GetFlowMetrics(ctx context.Context, window time.Duration) (*FlowMetrics, error) {
	metrics := &FlowMetrics{ActionsByName: make(map[string]int64)}
	rangeSel := model.Duration(window).String()

	turns, err := q.scalarQuery(ctx, fmt.Sprintf(`sum(increase(dialog_turns_total[%s]))`, rangeSel))
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	metrics.Turns = turns

	fallbacks, err := q.scalarQuery(ctx, fmt.Sprintf(`sum(increase(dialog_fallbacks_total[%s]))`, rangeSel))
	if err != nil {
		return nil, fmt.Errorf("failed to query fallbacks: %w", err)
	}
	metrics.Fallbacks = fallbacks

	actionsQuery := fmt.Sprintf(`sum by (action) (increase(dialog_action_executions_total[%s]))`, rangeSel)
	result, _, err := q.queryAPI.Query(ctx, actionsQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	if vector, ok := result.(model.Vector); ok {
		for _, sample := range vector {
			metrics.ActionsByName[string(sample.Metric["action"])] = int64(sample.Value)
		}
	}

	return metrics, nil
}

func (q *QueryService) scalarQuery(ctx context.Context, query string) (int64, error) {
	result, _, err := q.queryAPI.Query(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	if vector, ok := result.(model.Vector); ok && len(vector) > 0 {
		return int64(vector[0].Value), nil
	}
	return 0, nil
}
