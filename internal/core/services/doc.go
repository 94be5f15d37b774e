// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - Engine: tokenization plus the stage pipeline, bytes in, ParseResult out
//   - ParseService: form detection, PDF text recovery, storage and delivery
//   - RecordService: stored record management
//   - SettingsService: typed access to config.toml keys
package services
