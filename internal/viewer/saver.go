package viewer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// DirectorySaver writes downloaded files into one previously chosen
// directory, the headless counterpart of a directory-handle API. A nil
// saver means the capability is unavailable and downloads fall back to
// the URLOpener.
type DirectorySaver interface {
	// Acquire resolves the target directory once, before a batch.
	Acquire(ctx context.Context) error
	Save(ctx context.Context, name string, data []byte) error
}

// URLOpener hands a file URL to the platform, standing in for the
// browser save dialog or a new-tab open.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// AFSDirectorySaver implements DirectorySaver over viant/afs, so the
// target can be a local path (file://) or an in-memory one (mem://).
type AFSDirectorySaver struct {
	fs      afs.Service
	baseURL string
}

func NewAFSDirectorySaver(baseURL string) *AFSDirectorySaver {
	return &AFSDirectorySaver{
		fs:      afs.New(),
		baseURL: baseURL,
	}
}

func (s *AFSDirectorySaver) Acquire(ctx context.Context) error {
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil {
		return fmt.Errorf("failed to check directory %s: %w", s.baseURL, err)
	}
	if exists {
		return nil
	}
	if err := s.fs.Create(ctx, s.baseURL, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.baseURL, err)
	}
	return nil
}

func (s *AFSDirectorySaver) Save(ctx context.Context, name string, data []byte) error {
	target := url.Join(s.baseURL, name)
	if err := s.fs.Upload(ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
