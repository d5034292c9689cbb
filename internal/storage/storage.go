package storage

import "context"

// Archiver stores a processed audio file off-box. Archiving is best-effort;
// callers log failures and continue.
type Archiver interface {
	Archive(ctx context.Context, localPath string) (objectName string, err error)
}
