package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/poppy-build/poppup/internal/config"
	"github.com/poppy-build/poppup/internal/installer"
	"github.com/spf13/cobra"
)

var installedJSON bool

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "Show the last artifact installed by install-latest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := installer.LoadReceipt(config.Dir())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if r == nil {
			fmt.Fprintln(out, "nothing installed yet")
			return nil
		}

		if installedJSON {
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling receipt: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "artifact:  %s\n", r.Artifact)
		if r.Version != "" {
			fmt.Fprintf(out, "version:   %s\n", r.Version)
		}
		fmt.Fprintf(out, "path:      %s\n", r.Path)
		fmt.Fprintf(out, "sha256:    %s\n", r.SHA256)
		fmt.Fprintf(out, "installed: %s (%s)\n", r.InstalledAt.Format("2006-01-02 15:04:05"), humanize.Time(r.InstalledAt))
		return nil
	},
}

func init() {
	installedCmd.Flags().BoolVar(&installedJSON, "json", false, "Print the receipt as JSON")
	rootCmd.AddCommand(installedCmd)
}
