package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/render"
	"github.com/pktechnic/erpdoc/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	Long: `List stored records, newest first.

Examples:
  erpdoc list
  erpdoc list --type quotation --limit 10
  erpdoc list --failed --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored record",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a stored record",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var publishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Send a stored record to the webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublish,
}

func init() {
	listCmd.Flags().String("type", "", "Filter by document type (quotation, sales_order)")
	listCmd.Flags().Bool("failed", false, "Only records whose extraction failed")
	listCmd.Flags().String("customer", "", "Filter by customer code")
	listCmd.Flags().IntP("limit", "n", 0, "Maximum records (0 = all)")
	listCmd.Flags().Bool("json", false, "Print as JSON")
	showCmd.Flags().Bool("json", false, "Print as JSON")

	rootCmd.AddCommand(listCmd, showCmd, deleteCmd, publishCmd)
}

func parseDocType(s string) (domain.DocType, error) {
	switch s {
	case "":
		return "", nil
	case "quotation", "qt", "QT":
		return domain.DocQuotation, nil
	case "sales_order", "so", "SO":
		return domain.DocSalesOrder, nil
	case "unknown":
		return domain.DocUnknown, nil
	}
	return "", fmt.Errorf("document type %q: %w", s, domain.ErrInvalidInput)
}

func runList(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return fmt.Errorf("list: %w", errNotConfigured)
	}

	typeName, _ := cmd.Flags().GetString("type")
	failed, _ := cmd.Flags().GetBool("failed")
	customer, _ := cmd.Flags().GetString("customer")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	docType, err := parseDocType(typeName)
	if err != nil {
		return err
	}

	rows, err := recordService.List(cmd.Context(), domain.RecordFilter{
		DocType:      docType,
		FailedOnly:   failed,
		CustomerCode: customer,
		Limit:        limit,
	})
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if rows == nil {
			rows = []domain.RecordSummary{}
		}
		return writeJSON(out, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No records found.")
		return nil
	}
	fmt.Fprintln(out, render.Summaries(rows, stylesFor(out)))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("show: %w", errNotConfigured)
	}

	rec, err := recordService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, rec)
	}
	render.Record(out, rec, stylesFor(out))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("delete: %w", errNotConfigured)
	}
	if err := recordService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("publish: %w", errNotConfigured)
	}
	if err := recordService.Publish(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Published %s\n", args[0])
	return nil
}
