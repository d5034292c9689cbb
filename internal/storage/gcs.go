package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

type GCSArchive struct {
	client *gcs.Client
	bucket string
	log    *logrus.Logger
}

func NewGCSArchive(ctx context.Context, bucket string, log *logrus.Logger) (*GCSArchive, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &GCSArchive{client: c, bucket: bucket, log: log}, nil
}

func (a *GCSArchive) Close() error { return a.client.Close() }

// Archive uploads the local file under a fresh uuid-based object name and
// returns that name.
func (a *GCSArchive) Archive(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := uuid.NewString() + filepath.Ext(localPath)

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "audio/mpeg"
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return objectName, nil
}

// CleanupOldBlobs deletes archived objects older than maxAge and returns the
// number deleted. Per-object failures are logged and skipped; a cleanup pass
// never fails the caller.
func (a *GCSArchive) CleanupOldBlobs(ctx context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	deleted := 0

	it := a.client.Bucket(a.bucket).Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			a.log.WithError(err).Warn("listing archive bucket failed")
			break
		}
		if attrs.Created.After(cutoff) {
			continue
		}
		if err := a.client.Bucket(a.bucket).Object(attrs.Name).Delete(ctx); err != nil {
			a.log.WithError(err).WithField("object", attrs.Name).Warn("deleting archived blob failed")
			continue
		}
		deleted++
	}
	return deleted
}
