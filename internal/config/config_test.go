package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CHART_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "https://quickchart.io/chart", cfg.ChartServiceURL)
	assert.Equal(t, 10*time.Second, cfg.ChartTimeout)
	assert.Equal(t, 500, cfg.ChartWidth)
	assert.Equal(t, 300, cfg.ChartHeight)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CHART_TIMEOUT", "250ms")
	t.Setenv("QUICK_CHART_API_URL", "http://charts.internal/chart/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.ChartTimeout)
	assert.Equal(t, "http://charts.internal/chart", cfg.ChartServiceURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}
