package core

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meteogram/internal/config"
	"meteogram/internal/meteogram"
	"meteogram/internal/types"
)

type mockPlans struct {
	plan    *meteogram.Plan
	err     error
	doPanic bool
	lastCtx context.Context
}

func (m *mockPlans) Build(ctx context.Context) (*meteogram.Plan, error) {
	m.lastCtx = ctx
	if m.doPanic {
		panic("builder exploded")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

func newTestServer(t *testing.T, plans PlanBuilder) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
	}
	srv, err := NewServer(cfg, plans, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	srv.MountRoutes()
	return srv
}

func TestNewServerRejectsNilDependencies(t *testing.T) {
	cfg := &config.Config{}
	logger := slog.New(slog.DiscardHandler)

	_, err := NewServer(nil, &mockPlans{}, logger)
	assert.Error(t, err)
	_, err = NewServer(cfg, nil, logger)
	assert.Error(t, err)
	_, err = NewServer(cfg, &mockPlans{}, nil)
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockPlans{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestMeteogramEndpointReturnsPlan(t *testing.T) {
	now := time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC)
	plans := &mockPlans{plan: &meteogram.Plan{GeneratedAt: now, NowLine: now}}
	srv := newTestServer(t, plans)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meteogram", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data meteogram.Plan `json:"data"`
		Meta *ResponseMeta  `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.GeneratedAt.Equal(now))
	assert.Nil(t, body.Meta)
}

func TestMeteogramEndpointReportsDroppedEvents(t *testing.T) {
	plans := &mockPlans{plan: &meteogram.Plan{DroppedEvents: []string{"a", "b"}}}
	srv := newTestServer(t, plans)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meteogram", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Meta *ResponseMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	require.Len(t, body.Meta.Warnings, 1)
	assert.Contains(t, body.Meta.Warnings[0], "2 calendar event(s)")
}

func TestMeteogramEndpointMapsAppErrors(t *testing.T) {
	plans := &mockPlans{err: types.NewInsufficientData("merged timeline covers 3h, need 24h")}
	srv := newTestServer(t, plans)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/meteogram", nil)
	req.Header.Set("X-Request-Id", "req-77")
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(types.ErrCodeInsufficientData), body.Error.Code)
	assert.Equal(t, "req-77", body.Error.RequestID)
	assert.Equal(t, "req-77", rec.Header().Get("X-Request-Id"))
}

func TestMeteogramEndpointHidesGenericErrors(t *testing.T) {
	plans := &mockPlans{err: errors.New("pq: connection reset by peer")}
	srv := newTestServer(t, plans)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meteogram", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(types.ErrCodeInternalUnexpected), body.Error.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestRecovererCatchesPanics(t *testing.T) {
	srv := newTestServer(t, &mockPlans{doPanic: true})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meteogram", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(types.ErrCodeInternalUnexpected), body.Error.Code)
}

func TestRequestContextCarriesDeadline(t *testing.T) {
	plans := &mockPlans{plan: &meteogram.Plan{}}
	srv := newTestServer(t, plans)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meteogram", nil))

	require.NotNil(t, plans.lastCtx)
	_, ok := plans.lastCtx.Deadline()
	assert.True(t, ok, "handler context must carry the request timeout")
}
