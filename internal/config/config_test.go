package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "currentRide", cfg.Store.Key)
	assert.Equal(t, 3*time.Second, cfg.Tracking.TickInterval)
	assert.Equal(t, 30*time.Second, cfg.Tracking.ETARefresh)
	assert.Equal(t, 30*time.Second, cfg.Tracking.PickupDelay)
	assert.Equal(t, 60*time.Second, cfg.Tracking.TripDelay)
	assert.Equal(t, 0.1, cfg.Tracking.ArrivalThresholdKm)
	assert.Equal(t, 0.1, cfg.Tracking.StepFraction)
	assert.Equal(t, 1, cfg.Order.InitialStep)
	assert.Equal(t, 10*time.Second, cfg.Order.StepInterval)
	assert.Equal(t, 28, cfg.Order.CountdownMinutes)
	assert.Equal(t, 500*time.Millisecond, cfg.Geocode.Delay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOTAWEE_HTTP_ADDR", ":9090")
	t.Setenv("GOTAWEE_STORE_BACKEND", "redis")
	t.Setenv("GOTAWEE_TRACKING_TICK_INTERVAL", "1500ms")
	t.Setenv("GOTAWEE_ORDER_COUNTDOWN_MINUTES", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 1500*time.Millisecond, cfg.Tracking.TickInterval)
	assert.Equal(t, 12, cfg.Order.CountdownMinutes)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "store:\n  backend: file\n  file_path: /tmp/ride.json\ntracking:\n  pickup_delay: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("GOTAWEE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "/tmp/ride.json", cfg.Store.FilePath)
	assert.Equal(t, 5*time.Second, cfg.Tracking.PickupDelay)
	assert.Equal(t, 60*time.Second, cfg.Tracking.TripDelay)
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOTAWEE_STORE_BACKEND", "localstorage")
	t.Setenv("GOTAWEE_TRACKING_STEP_FRACTION", "2")
	t.Setenv("GOTAWEE_ORDER_INITIAL_STEP", "7")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
	assert.Contains(t, err.Error(), "tracking.step_fraction")
	assert.Contains(t, err.Error(), "order.initial_step")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the original one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
