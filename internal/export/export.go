// Package export writes downloaded SGF records to disk.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/vytor/ninebynine/internal/errors"
	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Sink recreates an export directory and fills it with one file per artifact.
type Sink struct {
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewSink returns a Sink.
func NewSink() *Sink {
	return &Sink{writeFile: os.WriteFile}
}

// PlayerDir returns root/username. The username comes from OGS and the
// directory is removed before every export, so it must name exactly one
// entry directly under root.
func PlayerDir(root, username string) (string, error) {
	dir := filepath.Join(root, username)
	switch {
	case username == "", username == ".", username == "..",
		strings.ContainsAny(username, `/\`), strings.ContainsRune(username, os.PathSeparator):
		return "", apperrors.NewExportError(dir, fmt.Errorf("unsafe player name %q", username))
	}
	return dir, nil
}

// Export replaces dir with a fresh directory holding <gameId>.sgf for each
// artifact, content followed by a newline. Failing to prepare dir is fatal;
// a file that cannot be written is logged and left out of the count.
func (s *Sink) Export(ctx context.Context, artifacts []models.Artifact, dir string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("export").WithField("dir", dir)

	if err := os.RemoveAll(dir); err != nil {
		log.Error("failed to clear directory: %v", err)
		return 0, apperrors.NewExportError(dir, err)
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		log.Error("failed to create directory: %v", err)
		return 0, apperrors.NewExportError(dir, err)
	}

	write := s.writeFile
	if write == nil {
		write = os.WriteFile
	}

	written := 0
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := filepath.Join(dir, a.FileName())
		if err := write(path, []byte(a.Content+"\n"), fileMode); err != nil {
			log.Warn("skipping %s: %v", a.FileName(), err)
			continue
		}
		written++
	}

	log.Info("wrote %d of %d files", written, len(artifacts))
	return written, nil
}
