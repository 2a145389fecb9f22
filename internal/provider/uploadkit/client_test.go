package uploadkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galleria-go/internal/domain/gallery"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/logger"
	"github.com/galleria-go/pkg/resilience"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.ProviderConfig{
		APIURL:  serverURL,
		APIKey:  "test-key",
		Timeout: 5,
	}, logger.NewNop())
}

func TestListFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listFiles", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get(apiKeyHeader))
		w.Write([]byte(`{"files":[{"key":"a","name":"photo.jpg","size":100,"uploadedAt":1718000000000},{"key":"b"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	infos, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "a", infos[0].Key)
	assert.Equal(t, "photo.jpg", infos[0].Name)
	assert.Equal(t, int64(100), infos[0].Size)
	assert.Equal(t, time.UnixMilli(1718000000000), infos[0].UploadedAt)

	assert.Equal(t, "b", infos[1].Key)
	assert.True(t, infos[1].UploadedAt.IsZero(), "absent timestamp stays zero")
}

func TestListFilesAbsentField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	infos, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestListFilesMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!doctype html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	infos, err := client.ListFiles(context.Background())
	require.NoError(t, err, "malformed listing is an empty gallery, not a failure")
	assert.Empty(t, infos)
}

func TestListFilesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ListFiles(context.Background())
	assert.Error(t, err)
}

func TestDeleteFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deleteFiles", r.URL.Path)
		w.Write([]byte(`{"success":true,"deletedCount":1}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.NoError(t, client.DeleteFile(context.Background(), "abc"))
}

func TestDeleteFileProviderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"deletedCount":0}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.DeleteFile(context.Background(), "abc")
	assert.ErrorIs(t, err, gallery.ErrProviderRejected)
}

func TestListFilesBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 5; i++ {
		_, err := client.ListFiles(context.Background())
		require.Error(t, err)
	}

	_, err := client.ListFiles(context.Background())
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.EqualValues(t, 5, atomic.LoadInt32(&hits), "open breaker fails fast without calling the provider")
}

func TestDeleteFileTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.DeleteFile(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, gallery.ErrProviderRejected)
}
