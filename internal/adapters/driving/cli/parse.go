package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/render"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/styles"
	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Extract documents from files",
	Long: `Parse one or more ERP exports and print the extracted documents.

The form is detected from the file extension and content unless --form is
given. Parsed records are stored unless --no-store is set.

Examples:
  erpdoc parse QT6801234.xml
  erpdoc parse --form csv --json orders/*.csv
  erpdoc parse --publish SO6800012.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("form", "", "Force the input form (markup, delimited, plaintext)")
	parseCmd.Flags().Bool("json", false, "Print records as JSON")
	parseCmd.Flags().Bool("no-store", false, "Do not store the records")
	parseCmd.Flags().Bool("publish", false, "Send stored records to the webhook")
	parseCmd.Flags().IntP("workers", "w", 4, "Files parsed concurrently")
	rootCmd.AddCommand(parseCmd)
}

// outcomeJSON is the --json view of one parsed file.
type outcomeJSON struct {
	Path   string         `json:"path"`
	Record *domain.Record `json:"record,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseService == nil {
		return fmt.Errorf("parse: %w", errNotConfigured)
	}

	formName, _ := cmd.Flags().GetString("form")
	asJSON, _ := cmd.Flags().GetBool("json")
	noStore, _ := cmd.Flags().GetBool("no-store")
	publish, _ := cmd.Flags().GetBool("publish")
	workers, _ := cmd.Flags().GetInt("workers")

	if publish && noStore {
		return fmt.Errorf("--publish requires stored records: %w", domain.ErrInvalidInput)
	}

	opts := driving.ParseOptions{Store: !noStore, Publish: publish}
	if formName != "" {
		form, err := domain.ParseForm(formName)
		if err != nil {
			return err
		}
		opts.Form = form
	}

	outcomes := parseService.ParseFiles(cmd.Context(), args, opts, workers)

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		views := make([]outcomeJSON, 0, len(outcomes))
		for _, o := range outcomes {
			v := outcomeJSON{Path: o.Path, Record: o.Record}
			if o.Err != nil {
				v.Error = o.Err.Error()
			}
			views = append(views, v)
		}
		if err := writeJSON(out, views); err != nil {
			return err
		}
	} else {
		printOutcomes(out, outcomes, stylesFor(out))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

func printOutcomes(w io.Writer, outcomes []driving.ParseOutcome, st *styles.Styles) {
	for i, o := range outcomes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if o.Record != nil {
			render.Record(w, o.Record, st)
		}
		if o.Err != nil {
			fmt.Fprintln(w, st.Error.Render(fmt.Sprintf("%s: %v", o.Path, o.Err)))
		}
	}
}
