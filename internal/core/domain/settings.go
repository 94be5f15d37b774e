package domain

import "time"

// ParserVersion identifies the current extraction rules.
const ParserVersion = "erpdoc-2.0"

// EngineConfig tunes the heuristics of the extraction engine.
type EngineConfig struct {
	// IssuerNames are company names of the issuing business. Company lines
	// mentioning them are never taken as the customer name.
	IssuerNames []string

	// Encodings are tried in order when decoding delimited input.
	Encodings []string

	// Delimiter separates fields in delimited input.
	Delimiter rune

	// FallbackMinAmount is the smallest unlabeled number accepted as a
	// last-resort grand total.
	FallbackMinAmount float64

	// MismatchTolerance is the allowed gap between the stated total and
	// subtotal - discount + vat.
	MismatchTolerance float64
}

// DefaultEngineConfig returns the built-in engine settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		IssuerNames:       []string{"พี.เค.เทคนิค", "pktechnic", "PK Technic"},
		Encodings:         []string{"windows-874", "utf-8", "tis-620", "iso-8859-11"},
		Delimiter:         ',',
		FallbackMinAmount: 100,
		MismatchTolerance: 1,
	}
}

// WebhookConfig configures delivery of records to an automation endpoint.
type WebhookConfig struct {
	// URL is the endpoint; empty disables publishing.
	URL string

	// RatePerSecond limits deliveries; zero means unlimited.
	RatePerSecond float64

	// Burst is the limiter burst size.
	Burst int

	// Timeout bounds a single delivery.
	Timeout time.Duration
}

// DefaultWebhookConfig returns webhook defaults with publishing disabled.
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		RatePerSecond: 2,
		Burst:         1,
		Timeout:       30 * time.Second,
	}
}

// WatchConfig configures the inbox watcher.
type WatchConfig struct {
	// Dir is the inbox directory.
	Dir string

	// ProcessedDir receives files after parsing; empty leaves them in place.
	ProcessedDir string

	// Publish forwards each stored record to the webhook.
	Publish bool

	// Debounce is the quiet period before a changed file is parsed.
	Debounce time.Duration
}
