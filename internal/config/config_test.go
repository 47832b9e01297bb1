package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 8844, cfg.DataPort)
	assert.Equal(t, 15*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, 20, cfg.MaxImportPages)
	assert.NotEmpty(t, cfg.StunServer)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SALINHA_PORT", "9000")
	t.Setenv("SALINHA_CONNECT_TIMEOUT", "5s")
	t.Setenv("SALINHA_MAX_IMPORT_PAGES", "3")

	cfg := Load()
	assert.Equal(t, 9000, cfg.DataPort)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 3, cfg.MaxImportPages)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SALINHA_PORT", "not-a-number")
	t.Setenv("SALINHA_CONNECT_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 8844, cfg.DataPort)
	assert.Equal(t, 15*time.Second, cfg.ConnectTimeout)
}
