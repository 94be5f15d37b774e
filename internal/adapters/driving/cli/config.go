package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration",
	Long: `Read and write values in the erpdoc configuration file.

Examples:
  erpdoc config get
  erpdoc config get engine.encodings
  erpdoc config set webhook.url https://automation.example.com/hook
  erpdoc config set engine.issuer_names "Acme Trading,บริษัท เอ"`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one value, or all values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return fmt.Errorf("config: %w", errNotConfigured)
		}
		fmt.Fprintln(cmd.OutOrStdout(), settingsService.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("config: %w", errNotConfigured)
	}

	if len(args) == 1 {
		v, ok := settingsService.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
		return nil
	}

	for _, key := range settingsService.Keys() {
		v, _ := settingsService.Get(key)
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, formatValue(v))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("config: %w", errNotConfigured)
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case []string:
		return strings.Join(x, ",")
	case string:
		if x == "" {
			return `""`
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}
