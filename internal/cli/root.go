package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/poppy-build/poppup/internal/branding"
	"github.com/poppy-build/poppup/internal/config"
	"github.com/poppy-build/poppup/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Resolved once per invocation by the root PersistentPreRunE.
var (
	settings *config.Settings
	log      logrus.FieldLogger = logger.Discard()
)

var (
	rootPush          bool
	rootInstallLatest bool
	rootOpts          options
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` publishes build artifacts to an Artifactory repository and
installs the newest published executable onto the PATH.

  ` + branding.CLIName() + ` --push --file target/poppy.tar.gz --name poppy --arch linux-x86_64
  ` + branding.CLIName() + ` --install-latest --name poppy --where ~/.local/bin`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              cobra.NoArgs,
	PersistentPreRunE: prepare,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !rootPush && !rootInstallLatest {
			return cmd.Help()
		}
		if rootPush {
			if err := runPush(cmd.Context(), cmd, rootOpts); err != nil {
				return err
			}
		}
		if rootInstallLatest {
			return runInstallLatest(cmd.Context(), cmd, rootOpts)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("url", branding.ArtifactoryURL(), "Artifactory base URL")
	pf.String("repo", branding.Repository(), "Repository key")
	pf.String("path", branding.RepositoryPath(), "Path inside the repository")
	pf.String("user", "", "Artifactory user (env "+branding.EnvVar("USER")+")")
	pf.String("token", "", "Artifactory token (env "+branding.EnvVar("TOKEN")+")")
	pf.String("token-long", "", "Long-form access token (env "+branding.EnvVar("TOKEN_LONG")+")")
	pf.String("timeout", "30s", "Per-request timeout")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("log-file", "", "Also write logs to this file (rotated)")

	f := rootCmd.Flags()
	f.BoolVar(&rootPush, "push", false, "Push --file to the repository unless it already exists")
	f.BoolVar(&rootInstallLatest, "install-latest", false, "Install the newest artifact of --name")
	addCoordinateFlags(f, &rootOpts)
	addPushFlags(f, &rootOpts)
	addInstallFlags(f, &rootOpts)
}

// options holds the flags shared by the root command and the push,
// install-latest and query subcommands.
type options struct {
	name     string
	arch     string
	dist     string
	file     string
	version  string
	manifest string
	force    bool
	verify   bool
	skipPath bool
	where    string
}

func addCoordinateFlags(f *pflag.FlagSet, o *options) {
	f.StringVar(&o.name, "name", branding.PackageName(), "Artifact name")
	f.StringVar(&o.arch, "arch", "", "Architecture, e.g. linux-x86_64")
	f.StringVar(&o.dist, "dist", artifact.DefaultDist, "Distribution kind")
}

func addPushFlags(f *pflag.FlagSet, o *options) {
	f.StringVar(&o.file, "file", "", "Artifact file to push")
	f.StringVar(&o.version, "version", "", "Version to push (default: read from --manifest)")
	f.StringVar(&o.manifest, "manifest", "Cargo.toml", "Manifest to read the version from")
	f.BoolVar(&o.force, "force", false, "Upload even if the artifact already exists")
}

func addInstallFlags(f *pflag.FlagSet, o *options) {
	f.StringVar(&o.where, "where", config.DefaultInstallDir(), "Install directory")
	f.BoolVar(&o.verify, "verify", false, "Verify the download against the repository sha256")
	f.BoolVar(&o.skipPath, "skip-path", false, "Do not add the install directory to PATH")
}

// prepare resolves settings (flags > env > config file > defaults) and
// builds the logger for the invocation.
func prepare(cmd *cobra.Command, args []string) error {
	config.Load()
	if err := config.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	s, err := config.Resolve()
	if err != nil {
		return err
	}
	l, err := logger.New(s.LogConfig(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	settings = s
	log = logger.WithRun(l).WithField("cmd", cmd.Name())
	return nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}
