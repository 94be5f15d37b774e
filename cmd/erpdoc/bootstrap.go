package main

import (
	"fmt"
	"path/filepath"

	"github.com/pktechnic/erpdoc/internal/adapters/driven/config/file"
	"github.com/pktechnic/erpdoc/internal/adapters/driven/pdftext"
	"github.com/pktechnic/erpdoc/internal/adapters/driven/storage/sqlite"
	"github.com/pktechnic/erpdoc/internal/adapters/driven/webhook"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/cli"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/core/services"
	"github.com/pktechnic/erpdoc/internal/logger"
	"github.com/pktechnic/erpdoc/internal/normalisers"
	"github.com/pktechnic/erpdoc/internal/stages"
)

// bootstrap wires the adapters into the core services.
func bootstrap(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfgStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if lvl := cfgStore.GetString(services.KeyLogLevel); lvl != "" {
		level, err := logger.ParseLevel(lvl)
		if err != nil {
			logger.Warn("config %s: %v", services.KeyLogLevel, err)
		} else {
			logger.SetLevel(level)
		}
	}

	engineCfg := services.LoadEngineConfig(cfgStore)

	stageRegistry := stages.NewRegistry()
	stages.RegisterDefaults(stageRegistry)
	pipeline, err := stages.NewDefaultPipeline(stageRegistry, services.LoadStageConfig(cfgStore))
	if err != nil {
		return nil, err
	}
	engine := services.NewEngine(normalisers.NewDefaultRegistry(engineCfg), pipeline, engineCfg)

	dataDir := cfgStore.GetString(services.KeyStoragePath)
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("store: %s", store.Path())

	var publisher driven.Publisher
	if hookCfg := services.LoadWebhookConfig(cfgStore); hookCfg.URL != "" {
		publisher = webhook.New(hookCfg)
	}

	results := store.ResultStore()
	return &cli.Services{
		Parse:    services.NewParseService(engine, pdftext.New(), results, publisher, engineCfg),
		Records:  services.NewRecordService(results, publisher),
		Settings: services.NewSettingsService(cfgStore),
		Watch:    services.LoadWatchConfig(cfgStore),
		Close:    store.Close,
	}, nil
}
