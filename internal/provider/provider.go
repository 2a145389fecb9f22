// Package provider abstracts the external file-hosting service that
// stores and serves the actual media bytes.
package provider

import (
	"context"
	"time"
)

// FileInfo is the provider's raw view of one stored object, before the
// facade normalizes it into a FileRecord. Zero values mean the provider
// did not supply the field.
type FileInfo struct {
	Key         string
	Name        string
	Size        int64
	CustomID    string
	ContentType string
	UploadedAt  time.Time
}

// Provider lists and deletes hosted files. Implementations must treat
// a missing or malformed listing as an empty result, not an error, and
// must report provider-side delete rejections as
// gallery.ErrProviderRejected so the facade can map them to client
// errors.
type Provider interface {
	ListFiles(ctx context.Context) ([]FileInfo, error)
	DeleteFile(ctx context.Context, key string) error
}
