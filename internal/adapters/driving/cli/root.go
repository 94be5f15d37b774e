// Package cli implements the erpdoc command line with cobra.
//
// Commands call driving ports held in package variables. Execute receives
// a Bootstrap that builds them once the global flags are parsed.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
	"github.com/pktechnic/erpdoc/internal/logger"
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

var version = "dev"

// Services are the ports the commands call.
type Services struct {
	Parse    driving.ParseService
	Records  driving.RecordService
	Settings driving.SettingsService
	Watch    domain.WatchConfig

	// Close releases storage; may be nil.
	Close func() error
}

// Bootstrap builds the services for a config directory ("" = default).
type Bootstrap func(configDir string) (*Services, error)

var (
	parseService    driving.ParseService
	recordService   driving.RecordService
	settingsService driving.SettingsService
	watchConfig     domain.WatchConfig
	closeServices   func() error

	bootstrap Bootstrap
	verbose   bool
	configDir string
)

var errNotConfigured = errors.New("service not configured")

var rootCmd = &cobra.Command{
	Use:   "erpdoc",
	Short: "Extract quotations and sales orders from ERP exports",
	Long: `erpdoc reads quotation (QT) and sales order (SO) documents exported by the
ERP as spreadsheet XML, windows-874 CSV or PDF, and extracts the header
fields, line items and totals into a structured record.

Records are stored locally and can be forwarded to an automation webhook.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.erpdoc)")
}

// SetVersion sets the version printed by `erpdoc version`.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context, boot Bootstrap) error {
	bootstrap = boot
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipBootstrap] == "" && bootstrap != nil {
		svc, err := bootstrap(configDir)
		if err != nil {
			return err
		}
		setServices(svc)
	}
	if verbose {
		logger.SetVerbose(true)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func setServices(s *Services) {
	parseService = s.Parse
	recordService = s.Records
	settingsService = s.Settings
	watchConfig = s.Watch
	closeServices = s.Close
}
