package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/smartaircity/smartaircity/internal/telemetry"
)

// withManualReader swaps in a collectable meter provider for the test.
func withManualReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	return reader
}

func collectMetricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestNewProviderMetrics(t *testing.T) {
	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)
	assert.NotNil(t, pm)
}

func TestProviderMetrics_RecordRequest(t *testing.T) {
	reader := withManualReader(t)

	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	pm.RecordRequest(ctx, "nominatim", "reverse", 120*time.Millisecond, nil)
	pm.RecordRequest(ctx, "mailapi", "send", 80*time.Millisecond, errors.New("timeout"))

	names := collectMetricNames(t, reader)
	assert.True(t, names["provider.request.duration"])
	assert.True(t, names["provider.request.total"])
}

func TestProviderMetrics_RecordCacheHitAndMiss(t *testing.T) {
	reader := withManualReader(t)

	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	pm.RecordCacheHit(ctx, "geocode", "reverse")
	pm.RecordCacheMiss(ctx, "geocode", "reverse")

	names := collectMetricNames(t, reader)
	assert.True(t, names["provider.cache.hit"])
	assert.True(t, names["provider.cache.miss"])
}

func TestProviderMetrics_NilRecordsNothing(t *testing.T) {
	var pm *telemetry.ProviderMetrics

	ctx := context.Background()

	// Must not panic when metrics are left unset.
	pm.RecordRequest(ctx, "nominatim", "reverse", time.Millisecond, nil)
	pm.RecordCacheHit(ctx, "geocode", "reverse")
	pm.RecordCacheMiss(ctx, "geocode", "reverse")
}
