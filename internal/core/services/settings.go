package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyIssuerNames       = "engine.issuer_names"
	KeyEncodings         = "engine.encodings"
	KeyDelimiter         = "engine.delimiter"
	KeyFallbackMinAmount = "engine.fallback_min_amount"
	KeyMismatchTolerance = "engine.mismatch_tolerance"
	KeyStoragePath       = "storage.path"
	KeyWebhookURL        = "webhook.url"
	KeyWebhookRate       = "webhook.rate_per_second"
	KeyWebhookBurst      = "webhook.burst"
	KeyWebhookTimeout    = "webhook.timeout_seconds"
	KeyWatchDir          = "watch.dir"
	KeyWatchProcessedDir = "watch.processed_dir"
	KeyLogLevel          = "log.level"
	KeyFoldRemarks       = "stages.items.fold_remarks"
	KeyUnlabeledFallback = "stages.reconcile.unlabeled_fallback"
)

type valueKind int

const (
	kindString valueKind = iota
	kindStrings
	kindInt
	kindFloat
	kindBool
)

type setting struct {
	kind valueKind
	def  any
}

// settings lists every known key with its type and default.
var settings = func() map[string]setting {
	eng := domain.DefaultEngineConfig()
	hook := domain.DefaultWebhookConfig()
	return map[string]setting{
		KeyIssuerNames:       {kindStrings, eng.IssuerNames},
		KeyEncodings:         {kindStrings, eng.Encodings},
		KeyDelimiter:         {kindString, string(eng.Delimiter)},
		KeyFallbackMinAmount: {kindFloat, eng.FallbackMinAmount},
		KeyMismatchTolerance: {kindFloat, eng.MismatchTolerance},
		KeyStoragePath:       {kindString, ""},
		KeyWebhookURL:        {kindString, ""},
		KeyWebhookRate:       {kindFloat, hook.RatePerSecond},
		KeyWebhookBurst:      {kindInt, hook.Burst},
		KeyWebhookTimeout:    {kindInt, int(hook.Timeout / time.Second)},
		KeyWatchDir:          {kindString, ""},
		KeyWatchProcessedDir: {kindString, ""},
		KeyLogLevel:          {kindString, "warn"},
		KeyFoldRemarks:       {kindBool, true},
		KeyUnlabeledFallback: {kindBool, true},
	}
}()

// SettingsService reads and writes configuration by key.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the stored value of key, or its default.
func (s *SettingsService) Get(key string) (any, bool) {
	def, known := settings[key]
	if v, ok := s.configStore.Get(key); ok {
		return v, true
	}
	if !known {
		return nil, false
	}
	return def.def, true
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	def, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	var (
		parsed any
		err    error
	)
	switch def.kind {
	case kindString:
		parsed = value
		if key == KeyDelimiter && utf8.RuneCountInString(unescapeDelimiter(value)) != 1 {
			err = fmt.Errorf("delimiter must be a single character")
		}
	case kindStrings:
		parsed = splitList(value)
	case kindInt:
		parsed, err = strconv.Atoi(value)
	case kindFloat:
		parsed, err = strconv.ParseFloat(value, 64)
	case kindBool:
		parsed, err = strconv.ParseBool(value)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the known keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// unescapeDelimiter lets `config set engine.delimiter '\t'` mean a tab.
func unescapeDelimiter(s string) string {
	switch s {
	case `\t`, "tab":
		return "\t"
	}
	return s
}
