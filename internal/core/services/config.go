package services

import (
	"time"
	"unicode/utf8"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
)

// LoadEngineConfig overlays stored settings onto the engine defaults.
func LoadEngineConfig(store driven.ConfigStore) domain.EngineConfig {
	cfg := domain.DefaultEngineConfig()
	if v := store.GetStringSlice(KeyIssuerNames); len(v) > 0 {
		cfg.IssuerNames = v
	}
	if v := store.GetStringSlice(KeyEncodings); len(v) > 0 {
		cfg.Encodings = v
	}
	if v := unescapeDelimiter(store.GetString(KeyDelimiter)); utf8.RuneCountInString(v) == 1 {
		cfg.Delimiter, _ = utf8.DecodeRuneInString(v)
	}
	if v := store.GetFloat(KeyFallbackMinAmount); v > 0 {
		cfg.FallbackMinAmount = v
	}
	if v := store.GetFloat(KeyMismatchTolerance); v > 0 {
		cfg.MismatchTolerance = v
	}
	return cfg
}

// LoadWebhookConfig reads webhook settings.
func LoadWebhookConfig(store driven.ConfigStore) domain.WebhookConfig {
	cfg := domain.DefaultWebhookConfig()
	cfg.URL = store.GetString(KeyWebhookURL)
	if _, ok := store.Get(KeyWebhookRate); ok {
		cfg.RatePerSecond = store.GetFloat(KeyWebhookRate)
	}
	if v := store.GetInt(KeyWebhookBurst); v > 0 {
		cfg.Burst = v
	}
	if v := store.GetInt(KeyWebhookTimeout); v > 0 {
		cfg.Timeout = time.Duration(v) * time.Second
	}
	return cfg
}

// LoadWatchConfig reads inbox watcher settings.
func LoadWatchConfig(store driven.ConfigStore) domain.WatchConfig {
	return domain.WatchConfig{
		Dir:          store.GetString(KeyWatchDir),
		ProcessedDir: store.GetString(KeyWatchProcessedDir),
		Debounce:     500 * time.Millisecond,
	}
}

// LoadStageConfig returns per-stage settings keyed by stage name, in the
// shape the stage registry builders expect.
func LoadStageConfig(store driven.ConfigStore) map[string]map[string]any {
	cfg := map[string]map[string]any{}
	add := func(stage, option, key string) {
		if v, ok := store.Get(key); ok {
			if cfg[stage] == nil {
				cfg[stage] = map[string]any{}
			}
			cfg[stage][option] = v
		}
	}
	add("items", "fold_remarks", KeyFoldRemarks)
	add("reconcile", "unlabeled_fallback", KeyUnlabeledFallback)
	return cfg
}
