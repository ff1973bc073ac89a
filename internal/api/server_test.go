package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenJWChen/layout-automation/internal/service"
	"github.com/StevenJWChen/layout-automation/pkg/config"
	"github.com/StevenJWChen/layout-automation/pkg/utils"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	svc, err := service.New(&config.Config{}, utils.NewDefaultLogger(utils.LevelError, nil))
	require.NoError(t, err)
	return NewServer(svc, 0, utils.NewDefaultLogger(utils.LevelError, nil))
}

func TestHandleHealth_NoComponentsInitialized(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleStats(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.handleStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":false`)
}

func TestHandleJobs_MethodNotAllowed(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec := httptest.NewRecorder()
	s.handleJobs(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleJobs_InvalidBody(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	s.handleJobs(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleJobByUUID_MethodNotAllowed(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/jobs/abc", nil)
	rec := httptest.NewRecorder()
	s.handleJobByUUID(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleJobByUUID_MissingUUID(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/jobs/", nil)
	rec := httptest.NewRecorder()
	s.handleJobByUUID(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShutdown_NoServerStarted(t *testing.T) {
	s := testServer(t)
	assert.NoError(t, s.Shutdown(nil))
}
