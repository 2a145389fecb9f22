package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/galleria-go/internal/domain/gallery"
	"github.com/galleria-go/internal/facade/service"
	"github.com/galleria-go/internal/provider"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/contracts/files"
	"github.com/galleria-go/pkg/logger"
	"github.com/galleria-go/pkg/resilience"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListFiles(ctx context.Context) ([]provider.FileInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.FileInfo), args.Error(1)
}

func (m *MockProvider) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func setupRouter(p provider.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewFacadeService(p, config.ProviderConfig{PublicHost: "utfs.io"}, logger.NewNop())
	h := NewFileHandlers(svc, logger.NewNop())

	router := gin.New()
	router.GET("/api/files", h.ListFiles)
	router.DELETE("/api/files", h.DeleteFile)
	router.PATCH("/api/files", h.UpdateFile)
	return router
}

func TestListFilesOK(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("ListFiles", mock.Anything).Return([]provider.FileInfo{
		{Key: "a", Name: "photo.jpg", Size: 10},
		{Key: "b", Name: "song.mp3", Size: 20},
	}, nil)

	router := setupRouter(mockProvider)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp files.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "https://utfs.io/f/a", resp.Files[0].URL)
	assert.Equal(t, gallery.TypeImage, resp.Files[0].Type)
}

func TestListFilesProviderFailure(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("ListFiles", mock.Anything).Return(nil, fmt.Errorf("provider down"))

	router := setupRouter(mockProvider)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp files.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.Details, "provider down")
	assert.NotNil(t, resp.Files)
	assert.Empty(t, resp.Files)
	assert.Equal(t, 0, resp.Total)
}

func TestListFilesBreakerOpenIsServerFault(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("ListFiles", mock.Anything).
		Return(nil, fmt.Errorf("provider list failed: %w", resilience.ErrCircuitOpen))

	router := setupRouter(mockProvider)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp files.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Details, "circuit breaker is open")
	assert.Empty(t, resp.Files)
	assert.Equal(t, 0, resp.Total)
}

func TestDeleteFileMissingKey(t *testing.T) {
	mockProvider := new(MockProvider)
	router := setupRouter(mockProvider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/files", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp files.DeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	mockProvider.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)
}

func TestDeleteFileOK(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("DeleteFile", mock.Anything, "abc").Return(nil)

	router := setupRouter(mockProvider)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/files?key=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp files.DeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "abc", resp.DeletedKey)
}

func TestDeleteFileProviderRejected(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("DeleteFile", mock.Anything, "abc").
		Return(fmt.Errorf("delete of %q: %w", "abc", gallery.ErrProviderRejected))

	router := setupRouter(mockProvider)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/files?key=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp files.DeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestDeleteFileUnexpectedError(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("DeleteFile", mock.Anything, "abc").Return(fmt.Errorf("network timeout"))

	router := setupRouter(mockProvider)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/files?key=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp files.DeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Details, "network timeout")
}

func TestUpdateFileEchoesPatch(t *testing.T) {
	mockProvider := new(MockProvider)
	router := setupRouter(mockProvider)

	body, _ := json.Marshal(map[string]interface{}{"name": "renamed.jpg"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/files?key=abc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp files.UpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "abc", resp.UpdatedKey)
	assert.Equal(t, "renamed.jpg", resp.Patch["name"])
}

func TestUpdateFileMissingKey(t *testing.T) {
	mockProvider := new(MockProvider)
	router := setupRouter(mockProvider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/files", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateFileInvalidBody(t *testing.T) {
	mockProvider := new(MockProvider)
	router := setupRouter(mockProvider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/files?key=abc", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
