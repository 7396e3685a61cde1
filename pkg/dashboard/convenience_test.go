package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thepack/dashboard-go/pkg/dashboard"
	"github.com/thepack/dashboard-go/pkg/dashboard/dashtest"
)

func TestValue(t *testing.T) {
	client, _ := newClientServer(t)
	ctx := context.Background()

	_, err := client.SubmitValues(ctx, map[string]float64{"tests_total": 1500})
	require.NoError(t, err)

	v, ok, err := client.Value(ctx, "tests_total")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1500.0, v)

	_, ok, err = client.Value(ctx, "missing_key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTrend(t *testing.T) {
	client, server := newClientServer(t)
	ctx := context.Background()

	now := time.Now().UTC()
	server.Seed("tests_total",
		dashtest.SeedPoint{Value: 1000, At: now.Add(-30 * time.Hour)},
		dashtest.SeedPoint{Value: 1500, At: now},
	)

	pct, ok, err := client.Trend(ctx, "tests_total", dashboard.Period24h)
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 50.0, pct, 0.001)

	// Unknown key and unknown period both read as "no trend".
	_, ok, err = client.Trend(ctx, "missing_key", dashboard.Period24h)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = client.Trend(ctx, "tests_total", "1y")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTrend_ZeroBaselineHasNoPct(t *testing.T) {
	client, server := newClientServer(t)
	ctx := context.Background()

	now := time.Now().UTC()
	server.Seed("starts_at_zero",
		dashtest.SeedPoint{Value: 0, At: now.Add(-30 * time.Hour)},
		dashtest.SeedPoint{Value: 5, At: now},
	)

	_, ok, err := client.Trend(ctx, "starts_at_zero", dashboard.Period24h)
	require.NoError(t, err)
	require.False(t, ok, "percentage against a zero baseline is undefined")
}

func TestSubmitOne(t *testing.T) {
	client, _ := newClientServer(t)
	ctx := context.Background()

	ok, err := client.SubmitOne(ctx, "single_metric", 42, nil)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SubmitOne(ctx, "meta_metric", 7, map[string]any{"source": "CI"})
	require.NoError(t, err)
	require.True(t, ok)

	v, found, err := client.Value(ctx, "meta_metric")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 7.0, v)
}

func TestIsHealthy(t *testing.T) {
	client, _ := newClientServer(t)
	require.True(t, client.IsHealthy(context.Background()))
}

func TestIsHealthy_DownServerIsFalse(t *testing.T) {
	client, err := dashboard.New(dashboard.Config{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	require.False(t, client.IsHealthy(context.Background()))
}

func TestHotAlerts(t *testing.T) {
	client, server := newClientServer(t)

	now := time.Now().UTC()
	server.SeedAlert("m1", dashboard.AlertLevelAlert, 1, 12, now)
	server.SeedAlert("m2", dashboard.AlertLevelHot, 2, 30, now)
	server.SeedAlert("m3", dashboard.AlertLevelHot, 3, -40, now)

	hot, err := client.HotAlerts(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, hot, 2)
	for _, a := range hot {
		require.Equal(t, dashboard.AlertLevelHot, a.Level)
	}
}

func TestKeys(t *testing.T) {
	client, _ := newClientServer(t)
	ctx := context.Background()

	keys, err := client.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)

	_, err = client.SubmitValues(ctx, map[string]float64{"b_metric": 1, "a_metric": 2})
	require.NoError(t, err)

	keys, err = client.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a_metric", "b_metric"}, keys)
}
