package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/poppy-build/poppup/internal/manifest"
	"github.com/poppy-build/poppup/internal/publish"
	"github.com/spf13/cobra"
)

var pushOpts options

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload an artifact unless the repository already has it",
	Long: `Reads the version from the manifest (or --version), checks whether
<name>-<version>-<arch>-<dist>.tar.gz exists in the repository and uploads
--file if it does not. --force uploads over an existing artifact.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPush(cmd.Context(), cmd, pushOpts)
	},
}

func init() {
	addCoordinateFlags(pushCmd.Flags(), &pushOpts)
	addPushFlags(pushCmd.Flags(), &pushOpts)
	rootCmd.AddCommand(pushCmd)
}

func runPush(ctx context.Context, cmd *cobra.Command, o options) error {
	if o.file == "" {
		return errors.New("--file is required with --push")
	}
	coord, err := pushCoordinate(o)
	if err != nil {
		return err
	}

	client, err := newClient(settings, log)
	if err != nil {
		return err
	}
	p := &publish.Publisher{Store: client, Log: log}
	outcome, err := p.Push(ctx, publish.Request{File: o.file, Coordinate: coord, Force: o.force})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch outcome {
	case publish.AlreadyPresent:
		fmt.Fprintf(out, "file %s already exists in artifactory\n", o.file)
	case publish.Overwritten:
		fmt.Fprintf(out, "file %s overwritten in artifactory\n", o.file)
	default:
		fmt.Fprintf(out, "file %s pushed to artifactory\n", o.file)
	}
	return nil
}

// pushCoordinate builds the coordinate to push. The version comes from
// --version or the manifest; the arch defaults to the host platform.
func pushCoordinate(o options) (artifact.Coordinate, error) {
	version := o.version
	if version == "" {
		v, err := manifest.Version(o.manifest)
		if err != nil {
			return artifact.Coordinate{}, err
		}
		log.Infof("cargo version: %s", v)
		version = v
	}

	arch := o.arch
	if arch == "" {
		arch = artifact.HostArch()
		log.Debugf("no --arch given, using host arch %s", arch)
	}
	dist := o.dist
	if dist == "" {
		dist = artifact.DefaultDist
	}

	coord := artifact.Coordinate{Name: o.name, Version: version, Arch: arch, Dist: dist}
	return coord, coord.Validate()
}
