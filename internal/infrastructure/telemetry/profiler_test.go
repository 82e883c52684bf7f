package telemetry_test

import (
	"context"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseProfileTypes(t *testing.T) {
	types, err := telemetry.ParseProfileTypes([]string{"cpu", " Mutex "})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, types)

	_, err = telemetry.ParseProfileTypes([]string{"heap"})
	assert.Error(t, err)
}

func TestNewProfiler(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())

	_, err = telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err, "server address is required")
}

func TestSetup_DisabledKeepsNoopProviders(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), telemetry.Config{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p.Tracer)
	assert.False(t, p.Profiler.IsEnabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}
