// Package publish uploads a built artifact unless the store already has it.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/poppy-build/poppup/internal/artifact"
)

// ErrArtifactFileNotFound is returned when the local file to push is missing.
var ErrArtifactFileNotFound = errors.New("artifact file not found")

// Outcome is the result of a push.
type Outcome int

const (
	Pushed Outcome = iota
	AlreadyPresent
	Overwritten
)

func (o Outcome) String() string {
	switch o {
	case Pushed:
		return "pushed"
	case AlreadyPresent:
		return "already present"
	case Overwritten:
		return "overwritten"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Store is the part of the artifact store a push needs.
type Store interface {
	Exists(ctx context.Context, coord artifact.Coordinate) (bool, error)
	Upload(ctx context.Context, coord artifact.Coordinate, body io.Reader, size int64) error
}

// Request describes one push.
type Request struct {
	File       string
	Coordinate artifact.Coordinate
	// Force uploads even when the artifact already exists.
	Force bool
}

// Publisher pushes artifacts to a store.
type Publisher struct {
	Store Store
	Log   logrus.FieldLogger
}

// Push checks whether the artifact exists and uploads it if not (or if
// forced). The check and the upload are separate requests, so a concurrent
// publisher can still win between them.
func (p *Publisher) Push(ctx context.Context, req Request) (Outcome, error) {
	log := p.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	if err := req.Coordinate.Validate(); err != nil {
		return 0, err
	}

	f, err := os.Open(req.File)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrArtifactFileNotFound, req.File)
		}
		return 0, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("reading artifact: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", ErrArtifactFileNotFound, req.File)
	}

	exists, err := p.Store.Exists(ctx, req.Coordinate)
	if err != nil {
		return 0, err
	}
	outcome := Pushed
	if exists {
		if !req.Force {
			log.Infof("%s already exists, skipping upload", req.Coordinate.FileName())
			return AlreadyPresent, nil
		}
		outcome = Overwritten
	}

	if err := p.Store.Upload(ctx, req.Coordinate, f, info.Size()); err != nil {
		return 0, err
	}
	log.Infof("%s %s", outcome, req.Coordinate)
	return outcome, nil
}
