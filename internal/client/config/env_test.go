package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv_Overlay(t *testing.T) {
	t.Setenv("ADDRESS", "http://127.0.0.1:9191")
	t.Setenv("ONLINE_CHECK_INTERVAL", "30s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://127.0.0.1:9191", cfg.ServerEndpointAddr)
	assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)

	// переменные, которых нет в окружении, не трогают значения по умолчанию
	assert.Equal(t, "catalog.db", cfg.DatabaseDSN)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
