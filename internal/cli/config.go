package cli

import (
	"fmt"

	"github.com/poppy-build/poppup/internal/artifactory"
	"github.com/poppy-build/poppup/internal/branding"
	"github.com/poppy-build/poppup/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ~/` + branding.HomeDir() + `/config.yaml.
Environment variables (` + branding.EnvPrefix() + `_<KEY>) and flags take precedence over the file.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, displayValue(key, value))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		fmt.Fprintln(cmd.OutOrStdout(), displayValue(key, config.Get(key)))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List effective configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range config.Keys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, displayValue(key, config.Get(key)))
		}
		return nil
	},
}

// displayValue hides secrets when echoing configuration.
func displayValue(key, value string) string {
	if key == config.KeyToken || key == config.KeyTokenLong {
		return artifactory.NewCredentials("", value, "").RedactedToken()
	}
	return value
}
