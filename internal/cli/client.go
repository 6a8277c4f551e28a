package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/poppy-build/poppup/internal/artifactory"
	"github.com/poppy-build/poppup/internal/branding"
	"github.com/poppy-build/poppup/internal/config"
	"github.com/sirupsen/logrus"
)

// newClient builds the store client from the resolved settings.
func newClient(s *config.Settings, l logrus.FieldLogger) (*artifactory.Client, error) {
	timeout := 30 * time.Second
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
		}
		timeout = d
	}

	loc := artifact.Locator{BaseURL: s.URL, Repository: s.Repo, Path: s.Path}
	creds := artifactory.NewCredentials(s.User, s.Token, s.TokenLong)
	if creds.Empty() {
		l.Warn("user or token not configured; the repository may reject requests")
	}
	l.WithField("credentials", creds.String()).Debugf("using repository %s/%s/%s", s.URL, s.Repo, s.Path)

	return artifactory.New(loc, creds,
		artifactory.WithTimeout(timeout),
		artifactory.WithLogger(l),
		artifactory.WithUserAgent(branding.CLIName()+"/"+buildVersion),
	), nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
