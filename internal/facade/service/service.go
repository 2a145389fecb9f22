// Package service normalizes the provider's file listing into the
// stable client contract and performs deletions against it.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/galleria-go/internal/domain/gallery"
	"github.com/galleria-go/internal/provider"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/logger"
	"github.com/galleria-go/pkg/metrics"
)

type FacadeService struct {
	provider provider.Provider
	cfg      config.ProviderConfig
	logger   logger.Logger
	now      func() time.Time
}

func NewFacadeService(p provider.Provider, cfg config.ProviderConfig, log logger.Logger) *FacadeService {
	return &FacadeService{
		provider: p,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
}

// List queries the provider fresh on every call and reshapes the result
// into FileRecords. Fields the provider omits get placeholder defaults
// instead of failing: current time, zero size, unknown type. Callers
// needing accurate metadata must treat those fields as advisory.
func (s *FacadeService) List(ctx context.Context) ([]gallery.FileRecord, error) {
	infos, err := s.provider.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file list: %w", err)
	}

	records := make([]gallery.FileRecord, 0, len(infos))
	for _, info := range infos {
		records = append(records, s.normalize(info))
	}

	metrics.FilesListed.Observe(float64(len(records)))
	s.logger.Debug("Listed files from provider", "count", len(records))
	return records, nil
}

func (s *FacadeService) normalize(info provider.FileInfo) gallery.FileRecord {
	name := info.Name
	if name == "" {
		name = info.Key
	}

	uploadedAt := info.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = s.now()
	}

	size := info.Size
	if size < 0 {
		size = 0
	}

	return gallery.FileRecord{
		Key:        info.Key,
		Name:       name,
		URL:        s.cfg.PublicURL(info.Key),
		Type:       gallery.Classify(info.ContentType, name),
		Size:       size,
		CustomID:   info.CustomID,
		UploadedAt: uploadedAt,
	}
}

// Delete removes one file by key. An empty key fails validation before
// the provider is ever contacted. Provider-reported rejections come
// back as gallery.ErrProviderRejected; there is no retry.
func (s *FacadeService) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return gallery.ErrMissingKey
	}

	if err := s.provider.DeleteFile(ctx, key); err != nil {
		return err
	}

	metrics.FilesDeleted.Inc()
	s.logger.Info("Deleted file", "key", key)
	return nil
}

// Update is a permanent no-op: it validates the key and echoes the
// patch without persisting anything. The provider offers no metadata
// mutation, and the contract deliberately preserves the echo behavior.
func (s *FacadeService) Update(ctx context.Context, key string, patch map[string]interface{}) (map[string]interface{}, error) {
	if strings.TrimSpace(key) == "" {
		return nil, gallery.ErrMissingKey
	}
	return patch, nil
}
