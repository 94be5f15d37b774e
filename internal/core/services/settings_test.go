package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pktechnic/erpdoc/internal/adapters/driven/storage/memory"
	"github.com/pktechnic/erpdoc/internal/core/domain"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	v, ok := svc.Get(KeyDelimiter)
	assert.True(t, ok)
	assert.Equal(t, ",", v)

	v, ok = svc.Get(KeyFoldRemarks)
	assert.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = svc.Get(KeyEncodings)
	assert.True(t, ok)
	assert.Equal(t, domain.DefaultEngineConfig().Encodings, v)

	_, ok = svc.Get("no.such.key")
	assert.False(t, ok)
}

func TestSettingsService_GetStored(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyWebhookURL: "http://hook"})
	svc := NewSettingsService(store)

	v, ok := svc.Get(KeyWebhookURL)
	assert.True(t, ok)
	assert.Equal(t, "http://hook", v)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  any
	}{
		{KeyIssuerNames, "พี.เค.เทคนิค, PK Technic ,", []string{"พี.เค.เทคนิค", "PK Technic"}},
		{KeyDelimiter, ";", ";"},
		{KeyDelimiter, `\t`, `\t`},
		{KeyFallbackMinAmount, "250.5", 250.5},
		{KeyWebhookBurst, "3", 3},
		{KeyUnlabeledFallback, "false", false},
		{KeyWatchDir, "/srv/inbox", "/srv/inbox"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			svc := NewSettingsService(store)

			require.NoError(t, svc.Set(tt.key, tt.value))

			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_SetInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"multi-char delimiter", KeyDelimiter, ",,"},
		{"not an int", KeyWebhookBurst, "many"},
		{"not a float", KeyMismatchTolerance, "one"},
		{"not a bool", KeyFoldRemarks, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store).Set(tt.key, tt.value)

			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestSettingsService_KeysAndPath(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	keys := svc.Keys()
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyWebhookURL)
	assert.Len(t, keys, len(settings))
	assert.Equal(t, ":memory:", svc.Path())
}
