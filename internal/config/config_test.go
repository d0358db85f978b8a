package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.ServerPort)
	assert.Equal(t, 3, cfg.FuelWindow)
	assert.Equal(t, 500.0, cfg.MaintenanceThresholdKm)
	assert.Equal(t, 2.0, cfg.TargetEarningPerKm)
	assert.Equal(t, 15*time.Minute, cfg.TrackingIdleTimeout)
	assert.Equal(t, time.Minute, cfg.TrackingSweepInterval)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("DEBUG", "true")
	t.Setenv("FUEL_WINDOW", "5")
	t.Setenv("TARGET_EARNING_PER_KM", "2.5")
	t.Setenv("TRACKING_IDLE_TIMEOUT", "30m")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5, cfg.FuelWindow)
	assert.Equal(t, 2.5, cfg.TargetEarningPerKm)
	assert.Equal(t, 30*time.Minute, cfg.TrackingIdleTimeout)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("FUEL_WINDOW", "three")
	t.Setenv("MAINTENANCE_THRESHOLD_KM", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.FuelWindow)
	assert.Equal(t, 500.0, cfg.MaintenanceThresholdKm)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	_, err = Load()
	assert.Error(t, err)
}
