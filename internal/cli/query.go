package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poppy-build/poppup/internal/branding"
	"github.com/spf13/cobra"
)

var (
	queryOpts options
	queryJSON bool
	queryShow bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List the newest artifacts of a package",
	Long: `Runs the latest-artifact AQL query for --name and prints the matching
file names, newest first. install-latest installs the first one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryOpts.name == "" {
			return errors.New("--name is required")
		}
		client, err := newClient(settings, log)
		if err != nil {
			return err
		}

		aql := client.Locator().LatestQuery(queryOpts.name, queryOpts.arch, queryOpts.dist)
		out := cmd.OutOrStdout()
		if queryShow {
			fmt.Fprintln(out, aql)
			return nil
		}

		resp, err := client.Query(cmd.Context(), aql)
		if err != nil {
			return err
		}
		if queryJSON {
			data, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling query response: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		for _, name := range resp.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	},
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryOpts.name, "name", branding.PackageName(), "Artifact name")
	f.StringVar(&queryOpts.arch, "arch", "", "Only list artifacts of this architecture")
	f.StringVar(&queryOpts.dist, "dist", "", "Distribution kind used with --arch")
	f.BoolVar(&queryJSON, "json", false, "Print the raw query response")
	f.BoolVar(&queryShow, "show-query", false, "Print the AQL text without sending it")
	rootCmd.AddCommand(queryCmd)
}
