package object

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"resume-ats/internal/shared/util"
)

// ObjectStore saves and retrieves report objects by key.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ExportKey builds the storage key for a user export: the hashed user ID,
// then an exports folder, then a timestamped file name.
func ExportKey(userID, fileName string, at time.Time) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	stamp := at.UTC().Format("20060102T150405Z")
	return path.Join(util.HashKey(userID), "exports", stamp+"_"+name), nil
}
