package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitnessbro/platform/internal/app/domain/user"
	authsvc "github.com/fitnessbro/platform/internal/app/services/auth"
	"github.com/fitnessbro/platform/internal/app/services/nutrition"
	programsvc "github.com/fitnessbro/platform/internal/app/services/program"
	"github.com/fitnessbro/platform/internal/app/storage/memory"
	"github.com/fitnessbro/platform/internal/config"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/internal/metrics"
)

const testSecret = "api-test-secret"

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Auth.Secret = testSecret
	return cfg
}

type memoryIdentity struct{ store *memory.Store }

func (m memoryIdentity) ResolveCoachEmail(ctx context.Context, coachID string) string {
	u, err := m.store.GetUser(ctx, coachID)
	if err != nil || u.Email == "" {
		return "coach" + coachID + "@unknown"
	}
	return u.Email
}

func (m memoryIdentity) LookupUser(ctx context.Context, id string) (user.User, error) {
	return m.store.GetUser(ctx, id)
}

func newProgramServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()

	enricher := nutrition.NewEnricher(nil, nutrition.ProviderFunc(func(context.Context, string) (string, error) {
		return "", errors.New("provider offline")
	}), nil, nil)
	svc := programsvc.New(store, enricher, memoryIdentity{store}, nil)

	router := NewRouter("programd", testConfig(), nil, metrics.New(), nil)
	NewProgramAPI(svc, programsvc.NewYouTubeClient("", "http://127.0.0.1:0"), nil).Routes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func bearer(t *testing.T, subject, role string) string {
	t.Helper()
	token, err := authsvc.IssueToken(testSecret, subject, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, method, url, auth string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthIsOpen(t *testing.T) {
	srv, _ := newProgramServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "programd", body["service"])
}

func TestMetricsIsOpen(t *testing.T) {
	srv, _ := newProgramServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProgramEndpointsRequireToken(t *testing.T) {
	srv, _ := newProgramServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/programs", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(apperrors.CodeUnauthorized), body["code"])
}

func TestProgramLifecycleOverHTTP(t *testing.T) {
	srv, _ := newProgramServer(t)
	coach := bearer(t, "coach-1", user.RoleCoach)

	createBody := map[string]interface{}{
		"coach_id":  "coach-1",
		"client_id": "client-1",
		"title":     "Semaine 1",
		"days": []map[string]interface{}{
			{"day": "lundi", "meals": map[string]string{"matin": "poulet, riz"}},
		},
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/programs", coach, createBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID       string  `json:"id"`
		Calories float64 `json:"calories"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 369.0, created.Calories)

	// The scoped client reads it back.
	client := bearer(t, "client-1", user.RoleClient)
	resp = doJSON(t, http.MethodGet, srv.URL+"/programs/"+created.ID, client, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A foreign client is rejected.
	stranger := bearer(t, "client-2", user.RoleClient)
	resp = doJSON(t, http.MethodGet, srv.URL+"/programs/"+created.ID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Zero-day update is a 400.
	resp = doJSON(t, http.MethodPut, srv.URL+"/programs/"+created.ID, coach, map[string]interface{}{
		"coach_id": "coach-1", "client_id": "client-1", "title": "x", "days": []interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete by the owning coach.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/programs/"+created.ID, coach, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/programs/"+created.ID, coach, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVideoSearchValidation(t *testing.T) {
	srv, _ := newProgramServer(t)
	coach := bearer(t, "coach-1", user.RoleCoach)

	resp := doJSON(t, http.MethodGet, srv.URL+"/videos/search", coach, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
