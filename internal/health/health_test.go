package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) Check(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHandleHealth(t *testing.T) {
	h := NewHandler("fightsim", "1.0.0")
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "fightsim", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
}

func TestHandleReadyNotReady(t *testing.T) {
	h := NewHandler("fightsim", "")
	rec := httptest.NewRecorder()

	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "not_ready", resp.Checks["service"])
}

func TestHandleReadyRunsChecks(t *testing.T) {
	h := NewHandler("fightsim", "")
	h.SetReady(true)
	h.AddCheck("session", CheckerFunc(func(ctx context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h.AddCheck("model", CheckerFunc(func(ctx context.Context) error { return errors.New("broken") }))
	rec = httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Checks["session"])
	assert.Equal(t, "error: broken", resp.Checks["model"])
}

func TestHandleReadyPassesDeadline(t *testing.T) {
	checker := new(mockChecker)
	checker.On("Check", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(nil).Once()

	h := NewHandler("fightsim", "")
	h.SetReady(true)
	h.AddCheck("session", checker)

	rec := httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	checker.AssertExpectations(t)
}
