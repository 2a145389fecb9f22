// Package uploadkit implements the Provider interface against the
// hosted file service's REST API.
package uploadkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/galleria-go/internal/domain/gallery"
	"github.com/galleria-go/internal/provider"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/logger"
	"github.com/galleria-go/pkg/metrics"
	"github.com/galleria-go/pkg/resilience"
)

const apiKeyHeader = "x-uploadkit-api-key"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	logger     logger.Logger
}

func NewClient(cfg config.ProviderConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: cfg.APIURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("uploadkit")),
		logger:  log,
	}
}

type listedFile struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	CustomID   string `json:"customId"`
	UploadedAt int64  `json:"uploadedAt"` // unix millis, 0 when absent
}

type listFilesResponse struct {
	Files []listedFile `json:"files"`
}

type deleteFilesRequest struct {
	FileKeys []string `json:"fileKeys"`
}

type deleteFilesResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}

// ListFiles fetches every file known to the provider. A response
// without a files field decodes to an empty slice rather than failing.
func (c *Client) ListFiles(ctx context.Context) ([]provider.FileInfo, error) {
	start := time.Now()
	result, err := c.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		body, err := c.post(ctx, "/listFiles", struct{}{})
		if err != nil {
			return nil, err
		}
		var resp listFilesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			// Malformed listing is treated as an empty gallery.
			c.logger.Warn("Malformed provider listing, treating as empty", "error", err)
			return listFilesResponse{}, nil
		}
		return resp, nil
	})
	metrics.ProviderCallDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("provider list failed: %w", err)
	}
	metrics.ProviderCallsTotal.WithLabelValues("list", "ok").Inc()

	resp := result.(listFilesResponse)
	infos := make([]provider.FileInfo, 0, len(resp.Files))
	for _, f := range resp.Files {
		info := provider.FileInfo{
			Key:      f.Key,
			Name:     f.Name,
			Size:     f.Size,
			CustomID: f.CustomID,
		}
		if f.UploadedAt > 0 {
			info.UploadedAt = time.UnixMilli(f.UploadedAt)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// DeleteFile removes one file by key. A provider-reported failure maps
// to gallery.ErrProviderRejected; transport errors pass through.
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	start := time.Now()
	result, err := c.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		body, err := c.post(ctx, "/deleteFiles", deleteFilesRequest{FileKeys: []string{key}})
		if err != nil {
			return nil, err
		}
		var resp deleteFilesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("malformed delete response: %w", err)
		}
		return resp, nil
	})
	metrics.ProviderCallDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("provider delete failed: %w", err)
	}

	resp := result.(deleteFilesResponse)
	if !resp.Success || resp.DeletedCount == 0 {
		metrics.ProviderCallsTotal.WithLabelValues("delete", "rejected").Inc()
		return fmt.Errorf("delete of %q: %w", key, gallery.ErrProviderRejected)
	}
	metrics.ProviderCallsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return body, nil
}
