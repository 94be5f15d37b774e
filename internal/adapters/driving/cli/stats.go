package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/render"
	"github.com/pktechnic/erpdoc/internal/core/domain"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List customers seen in stored records",
	Long: `List customers seen in stored records, most recently seen first,
with their document count and the value of their successful documents.

Examples:
  erpdoc customers
  erpdoc customers -n 20 --json`,
	Args: cobra.NoArgs,
	RunE: runCustomers,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise stored records",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	customersCmd.Flags().IntP("limit", "n", 0, "Maximum customers (0 = all)")
	customersCmd.Flags().Bool("json", false, "Print as JSON")
	statsCmd.Flags().Bool("json", false, "Print as JSON")

	rootCmd.AddCommand(customersCmd, statsCmd)
}

func runCustomers(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return fmt.Errorf("customers: %w", errNotConfigured)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	rows, err := recordService.Customers(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("listing customers: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if rows == nil {
			rows = []domain.CustomerSummary{}
		}
		return writeJSON(out, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No customers found.")
		return nil
	}
	fmt.Fprintln(out, render.Customers(rows, stylesFor(out)))
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return fmt.Errorf("stats: %w", errNotConfigured)
	}

	stats, err := recordService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, stats)
	}
	render.Stats(out, stats, stylesFor(out))
	return nil
}
