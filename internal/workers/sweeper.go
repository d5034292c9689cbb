package workers

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/nebula/internal/audio"
	"github.com/yoockh/nebula/internal/buffer"
)

// BlobCleaner is the optional archive hook; nil when archiving is disabled.
type BlobCleaner interface {
	CleanupOldBlobs(ctx context.Context, maxAge time.Duration) int
}

// Sweeper runs the periodic maintenance pass: expired buffer entries, stale
// workspace files, and stale archived blobs all share one TTL. Sweep failures
// are logged, never fatal.
type Sweeper struct {
	Buffer    *buffer.Buffer
	Workspace *audio.Workspace
	Blobs     BlobCleaner
	TTL       time.Duration
	Schedule  string // cron spec; "@hourly" when empty
	Logger    *logrus.Logger

	cron *cron.Cron
}

func (s *Sweeper) Start() error {
	if s.Buffer == nil || s.Workspace == nil {
		return errors.New("Sweeper missing dependency: Buffer and Workspace must be set")
	}
	if s.TTL <= 0 {
		s.TTL = 24 * time.Hour
	}
	if s.Schedule == "" {
		s.Schedule = "@hourly"
	}
	if s.Logger == nil {
		s.Logger = logrus.New()
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.Schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule; the returned context is done once any in-flight
// sweep finishes.
func (s *Sweeper) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

func (s *Sweeper) Sweep() {
	entries := s.Buffer.CleanupExpired(s.TTL)
	files := s.Workspace.CleanupOldFiles(s.TTL)

	blobs := 0
	if s.Blobs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		blobs = s.Blobs.CleanupOldBlobs(ctx, s.TTL)
	}

	s.Logger.WithFields(logrus.Fields{
		"entries_removed": entries,
		"files_removed":   files,
		"blobs_removed":   blobs,
	}).Info("maintenance sweep complete")
}
