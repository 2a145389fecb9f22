package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/galleria-go/internal/domain/gallery"
	"github.com/galleria-go/pkg/contracts/files"
)

// Client is the viewer's handle on the facade plus the provider's
// public object URLs, which are fetched directly for bytes.
type Client interface {
	ListFiles(ctx context.Context) ([]gallery.FileRecord, error)
	DeleteFile(ctx context.Context, key string) error
	FetchContent(ctx context.Context, url string) ([]byte, error)
}

// HTTPClient talks to the facade over its same-origin JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) ListFiles(ctx context.Context) ([]gallery.FileRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/files", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	var list files.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode file list: %w", err)
	}
	if !list.Success {
		return nil, fmt.Errorf("file list failed: %s", list.Error)
	}
	return list.Files, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, key string) error {
	// Keys are opaque provider identifiers; escape them.
	query := neturl.Values{"key": {key}}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/files?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	var del files.DeleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&del); err != nil {
		return fmt.Errorf("failed to decode delete response: %w", err)
	}
	if !del.Success {
		return fmt.Errorf("delete failed: %s", del.Error)
	}
	return nil
}

// FetchContent downloads object bytes straight from the provider's
// public URL, bypassing the facade.
func (c *HTTPClient) FetchContent(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build content request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content request returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
