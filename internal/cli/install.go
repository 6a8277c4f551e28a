package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/poppy-build/poppup/internal/config"
	"github.com/poppy-build/poppup/internal/installer"
	"github.com/spf13/cobra"
)

var installOpts options

var installLatestCmd = &cobra.Command{
	Use:   "install-latest",
	Short: "Install the newest published artifact of a package",
	Long: `Queries the repository for the newest artifact of --name, downloads and
unpacks it, installs the binary into --where and adds that directory to PATH
in ~/.bashrc, ~/.profile and (if present) ~/.zshrc.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstallLatest(cmd.Context(), cmd, installOpts)
	},
}

func init() {
	addCoordinateFlags(installLatestCmd.Flags(), &installOpts)
	addInstallFlags(installLatestCmd.Flags(), &installOpts)
	rootCmd.AddCommand(installLatestCmd)
}

func runInstallLatest(ctx context.Context, cmd *cobra.Command, o options) error {
	if o.name == "" {
		return errors.New("--name is required with --install-latest")
	}
	where, err := expandHome(settings.InstallDir)
	if err != nil {
		return err
	}
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	client, err := newClient(settings, log)
	if err != nil {
		return err
	}
	inst := &installer.Installer{
		Store:      client,
		Locator:    client.Locator(),
		Name:       o.name,
		Dist:       o.dist,
		WorkDir:    workDir,
		TargetDir:  where,
		Verify:     o.verify,
		ReceiptDir: config.Dir(),
		Log:        log,
	}
	if !o.skipPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		inst.Path = installer.NewPathRegistrar(home)
	}

	res, err := inst.InstallLatest(ctx, o.arch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "installed %s to %s\n", res.Artifact, res.Path)
	if change := versionChange(res.Previous, res.Version); change != "" {
		fmt.Fprintln(out, change)
	}
	if len(res.Profiles) > 0 {
		fmt.Fprintln(out, "open a new shell or source your profile to pick up the PATH change")
	}
	return nil
}

// versionChange describes the move from the previously installed version,
// or returns "" when there is nothing to compare.
func versionChange(prev, cur string) string {
	if prev == "" || cur == "" {
		return ""
	}
	cmp, err := installer.CompareVersions(prev, cur)
	switch {
	case err != nil:
		return ""
	case cmp < 0:
		return fmt.Sprintf("upgraded %s -> %s", prev, cur)
	case cmp > 0:
		return fmt.Sprintf("downgraded %s -> %s", prev, cur)
	}
	return fmt.Sprintf("reinstalled %s", cur)
}
