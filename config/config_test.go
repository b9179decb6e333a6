package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/intake-engine/hydration"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "intake.db", cfg.DBPath)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
	assert.Equal(t, []int{100, 250, 500}, cfg.QuickAmounts)

	s := cfg.Defaults()
	assert.Equal(t, 2000, s.DefaultTarget)
	assert.True(t, s.AutoResetAtMidnight)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"INTAKE_PORT":           "9090",
		"INTAKE_TIMEZONE":       "UTC",
		"INTAKE_DEFAULT_TARGET": "2500",
		"INTAKE_QUICK_AMOUNTS":  "200,400",
		"INTAKE_AUTO_RESET":     "false",
		"INTAKE_CHECK_INTERVAL": "30s",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.CheckInterval)
	s := cfg.Defaults()
	assert.Equal(t, 2500, s.DefaultTarget)
	assert.Equal(t, []int{200, 400}, s.QuickAmounts)
	assert.False(t, s.AutoResetAtMidnight)

	cal, err := cfg.Calendar()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cal.Location)
}

func TestLoadFrom_RejectsInvalid(t *testing.T) {
	_, err := LoadFrom(map[string]string{"INTAKE_DEFAULT_TARGET": "0"})
	assert.ErrorIs(t, err, hydration.ErrInvalidTarget)

	_, err = LoadFrom(map[string]string{"INTAKE_QUICK_AMOUNTS": "100,-1"})
	assert.ErrorIs(t, err, hydration.ErrInvalidAmount)

	_, err = LoadFrom(map[string]string{"INTAKE_PORT": "eighty"})
	assert.Error(t, err)
}
