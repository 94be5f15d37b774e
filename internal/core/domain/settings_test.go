package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()

	assert.Equal(t, ',', cfg.Delimiter)
	assert.Equal(t, "windows-874", cfg.Encodings[0])
	assert.Contains(t, cfg.IssuerNames, "พี.เค.เทคนิค")
	assert.Equal(t, 100.0, cfg.FallbackMinAmount)
	assert.Equal(t, 1.0, cfg.MismatchTolerance)
}

func TestDefaultEngineConfig_Independent(t *testing.T) {
	a := DefaultEngineConfig()
	a.Encodings[0] = "utf-8"

	assert.Equal(t, "windows-874", DefaultEngineConfig().Encodings[0])
}

func TestDefaultWebhookConfig(t *testing.T) {
	cfg := DefaultWebhookConfig()

	assert.Empty(t, cfg.URL)
	assert.Equal(t, 2.0, cfg.RatePerSecond)
	assert.Equal(t, 1, cfg.Burst)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
