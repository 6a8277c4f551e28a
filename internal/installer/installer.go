package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/poppy-build/poppup/internal/artifactory"
	"github.com/poppy-build/poppup/internal/platform"
)

// Store is the part of the artifact store the installer talks to.
type Store interface {
	FindLatest(ctx context.Context, name, arch, dist string) ([]string, error)
	Download(ctx context.Context, url string) (io.ReadCloser, int64, error)
	Checksums(ctx context.Context, storageURL string) (*artifactory.Checksums, error)
}

// Installer installs the newest artifact of Name into TargetDir.
type Installer struct {
	Store   Store
	Locator artifact.Locator

	// Name is the artifact name queried in the store.
	Name string
	// BinaryName names the installed file; defaults to Name.
	BinaryName string
	// Dist narrows the query together with an arch; defaults to executable.
	Dist string

	// WorkDir holds the downloaded archive and the extracted file until
	// they are removed. Defaults to the current directory.
	WorkDir   string
	TargetDir string

	// Path, when set, registers TargetDir on PATH.
	Path *PathRegistrar
	// Verify compares the archive sha256 with the storage API.
	Verify bool
	// ReceiptDir, when set, receives the install receipt.
	ReceiptDir string

	Log logrus.FieldLogger
	Now func() time.Time
}

// Result describes a finished install.
type Result struct {
	Artifact string
	Version  string
	URL      string
	Path     string
	Size     int64
	SHA256   string
	// Previous is the version recorded by the last install, if any.
	Previous string
	// Profiles lists the shell profiles that gained the PATH line.
	Profiles []string
}

// InstallLatest queries the store and installs the first (newest) result.
// An empty arch matches every artifact of the name.
func (i *Installer) InstallLatest(ctx context.Context, arch string) (*Result, error) {
	log := i.logger()

	names, err := i.Store.FindLatest(ctx, i.Name, arch, i.Dist)
	if err != nil {
		return nil, fmt.Errorf("querying latest %s: %w", i.Name, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoArtifactsFound, i.Name)
	}
	latest := names[0]
	log.Infof("latest: %s", latest)

	res := &Result{
		Artifact: latest,
		URL:      i.Locator.LatestURL(i.Name, latest),
	}
	if c, err := artifact.ParseFileName(i.Name, latest); err == nil {
		res.Version = c.Version
	}

	workDir := i.WorkDir
	if workDir == "" {
		workDir = "."
	}
	archivePath := filepath.Join(workDir, i.binaryName()+"-latest"+artifact.Extension)
	defer os.Remove(archivePath)

	if err := i.download(ctx, res, archivePath); err != nil {
		return nil, err
	}
	log.Infof("downloaded %s (%s)", latest, humanize.Bytes(uint64(res.Size)))

	if i.Verify {
		if err := i.verify(ctx, res, latest); err != nil {
			return nil, err
		}
	}

	// The raw file gets its own directory so that installing into the
	// work directory never collides with it.
	extractDir, err := os.MkdirTemp(workDir, "."+i.binaryName()+"-extract-")
	if err != nil {
		return nil, &InstallError{Op: "create directory", Path: workDir, Err: err}
	}
	defer os.RemoveAll(extractDir)

	extracted, err := ExtractSingle(archivePath, extractDir)
	if err != nil {
		return nil, err
	}

	if err := platform.Chmod(extracted, platform.ExecutableMode); err != nil {
		return nil, &InstallError{Op: "chmod", Path: extracted, Err: err}
	}
	if err := os.MkdirAll(i.TargetDir, 0755); err != nil {
		return nil, &InstallError{Op: "create directory", Path: i.TargetDir, Err: err}
	}
	res.Path = filepath.Join(i.TargetDir, i.binaryName())
	if err := platform.CopyFile(extracted, res.Path, platform.ExecutableMode); err != nil {
		return nil, &InstallError{Op: "copy", Path: res.Path, Err: err}
	}
	if ok, err := platform.IsExecutable(res.Path); err != nil || !ok {
		if err == nil {
			err = errors.New("installed file is not executable")
		}
		return nil, &InstallError{Op: "verify", Path: res.Path, Err: err}
	}
	log.Infof("installed %s", res.Path)

	if i.Path != nil {
		profiles, err := i.Path.Register(i.TargetDir)
		if err != nil {
			return nil, err
		}
		res.Profiles = profiles
		for _, p := range profiles {
			log.WithField("profile", p).Info("added install directory to PATH")
		}
	}

	if i.ReceiptDir != "" {
		i.recordReceipt(log, res)
	}
	return res, nil
}

func (i *Installer) download(ctx context.Context, res *Result, archivePath string) error {
	body, _, err := i.Store.Download(ctx, res.URL)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", res.Artifact, err)
	}
	defer body.Close()

	f, err := os.Create(archivePath)
	if err != nil {
		return &InstallError{Op: "create", Path: archivePath, Err: err}
	}
	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), body)
	if err != nil {
		f.Close()
		return fmt.Errorf("writing download: %w", err)
	}
	if err := f.Close(); err != nil {
		return &InstallError{Op: "write", Path: archivePath, Err: err}
	}
	res.Size = n
	res.SHA256 = hex.EncodeToString(h.Sum(nil))
	return nil
}

func (i *Installer) verify(ctx context.Context, res *Result, latest string) error {
	sums, err := i.Store.Checksums(ctx, i.Locator.LatestStorageAPIURL(i.Name, latest))
	if err != nil {
		return fmt.Errorf("fetching checksums: %w", err)
	}
	if !strings.EqualFold(sums.SHA256, res.SHA256) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sums.SHA256, res.SHA256)
	}
	i.logger().Debug("checksum verified")
	return nil
}

// recordReceipt never fails the install; the binary is already in place.
func (i *Installer) recordReceipt(log logrus.FieldLogger, res *Result) {
	prev, err := LoadReceipt(i.ReceiptDir)
	if err != nil {
		log.WithError(err).Warn("ignoring unreadable install receipt")
	}
	if prev != nil && prev.Version != "" && res.Version != "" {
		res.Previous = prev.Version
		switch cmp, err := CompareVersions(prev.Version, res.Version); {
		case err != nil:
		case cmp < 0:
			log.Infof("upgraded %s -> %s", prev.Version, res.Version)
		case cmp > 0:
			log.Warnf("installed %s is older than previously installed %s", res.Version, prev.Version)
		default:
			log.Infof("reinstalled %s", res.Version)
		}
	}

	r := &Receipt{
		Artifact:    res.Artifact,
		Version:     res.Version,
		URL:         res.URL,
		Path:        res.Path,
		SHA256:      res.SHA256,
		InstalledAt: i.now(),
	}
	if err := SaveReceipt(i.ReceiptDir, r); err != nil {
		log.WithError(err).Warn("could not save install receipt")
	}
}

func (i *Installer) binaryName() string {
	if i.BinaryName != "" {
		return i.BinaryName
	}
	return i.Name
}

func (i *Installer) logger() logrus.FieldLogger {
	if i.Log != nil {
		return i.Log
	}
	return logrus.StandardLogger()
}

func (i *Installer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}
