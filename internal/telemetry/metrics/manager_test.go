package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	manager, reg := NewTestManagerAndRegistry()

	manager.CounterPlanMutations.WithLabelValues("create").Inc()
	manager.CounterPlanMutations.WithLabelValues("create").Inc()
	manager.GaugeActivePlans.Set(3)
	manager.HistRecomputeDuration.Observe(0.00002)
	manager.HistRecomputeDuration.Observe(0.5)

	assert.Equal(t, float64(2), testutil.ToFloat64(manager.CounterPlanMutations.WithLabelValues("create")))
	assert.Equal(t, float64(3), testutil.ToFloat64(manager.GaugeActivePlans))

	families, err := reg.Gather()
	require.NoError(t, err)

	var recompute *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "backend_test_server_plan_recompute_duration_seconds" {
			recompute = f
		}
	}
	require.NotNil(t, recompute)
	require.Len(t, recompute.GetMetric(), 1)

	hist := recompute.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	// 0.5s is above the last bucket
	assert.Equal(t, uint64(1), hist.GetBucket()[len(hist.GetBucket())-1].GetCumulativeCount())
}

func TestSetupPrometheus(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_collector_total"})
	reg := SetupPrometheus(nil, extra)

	extra.Inc()
	count, err := testutil.GatherAndCount(reg, "extra_collector_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Greater(t, len(families), 1)
}
