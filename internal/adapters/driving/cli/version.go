package cli

import (
	"github.com/spf13/cobra"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{skipBootstrap: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("erpdoc version %s (rules %s)\n", version, domain.ParserVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
