package audio

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Workspace owns the on-disk download area: a final directory for normalized
// audio and a temp directory for raw downloads awaiting conversion.
type Workspace struct {
	downloadDir string
	tempDir     string
	log         *logrus.Logger
}

func NewWorkspace(dir string, log *logrus.Logger) (*Workspace, error) {
	if dir == "" {
		dir = "downloads"
	}
	if log == nil {
		log = logrus.New()
	}
	w := &Workspace{
		downloadDir: dir,
		tempDir:     filepath.Join(dir, "temp"),
		log:         log,
	}
	if err := os.MkdirAll(w.tempDir, 0o755); err != nil {
		return nil, err
	}
	return w, nil
}

// TempPath returns the path for a raw download awaiting conversion.
func (w *Workspace) TempPath(name string) string {
	return filepath.Join(w.tempDir, name)
}

// DownloadPath returns the path for a finished file.
func (w *Workspace) DownloadPath(name string) string {
	return filepath.Join(w.downloadDir, name)
}

// CleanupOldFiles removes files older than maxAge from both directories and
// returns the number removed. Removal errors are logged and swallowed;
// housekeeping never fails the caller.
func (w *Workspace) CleanupOldFiles(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, dir := range []string{w.downloadDir, w.tempDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.log.WithError(err).WithField("dir", dir).Warn("listing workspace dir failed")
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				w.log.WithError(err).WithField("path", path).Warn("removing old audio file failed")
				continue
			}
			removed++
		}
	}
	return removed
}
