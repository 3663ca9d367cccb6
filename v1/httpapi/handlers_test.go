package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/ingest"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
)

type recordingSubmitter struct {
	reqs []ingest.Request
	err  error
}

func (r *recordingSubmitter) Submit(_ context.Context, req ingest.Request) error {
	if r.err != nil {
		return r.err
	}
	r.reqs = append(r.reqs, req)
	return nil
}

type stubVersions map[string][]catalog.Version

func (s stubVersions) List(_ context.Context, providerID string) ([]catalog.Version, error) {
	return s[providerID], nil
}

type stubProviders map[string]catalog.Provider

func (s stubProviders) GetByIDOrCode(_ context.Context, key string) (*catalog.Provider, error) {
	p, ok := s[key]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func newTestRouter(sub Submitter, m metrics.MetricsCollector) *gin.Engine {
	gin.SetMode(gin.TestMode)
	acme := catalog.Provider{ID: "p-1", Code: "ACME", Active: true}
	versions := stubVersions{"p-1": {
		{ID: "v-2", ProviderID: "p-1", VersionNumber: 2, Status: catalog.StatusProcessing},
		{ID: "v-1", ProviderID: "p-1", VersionNumber: 1, Status: catalog.StatusActive},
	}}
	h := NewHandlers(sub, versions, stubProviders{"p-1": acme, "ACME": acme}, logger.NewNop())
	return NewRouter(Config{AppEnv: "test"}, h, logger.NewNop(), m)
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateVersionAccepts(t *testing.T) {
	sub := &recordingSubmitter{}
	router := newTestRouter(sub, nil)

	w := do(router, http.MethodPost, "/v1/providers/ACME/catalog-versions", `{"fileRef":" uploads/a.csv ","actor":"jane"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"status":"accepted"}`, w.Body.String())
	require.Len(t, sub.reqs, 1)
	assert.Equal(t, ingest.Request{ProviderKey: "ACME", FileRef: "uploads/a.csv", Actor: "jane"}, sub.reqs[0])
}

func TestCreateVersionRequiresFileRef(t *testing.T) {
	tests := map[string]string{
		"missing":   `{"actor":"jane"}`,
		"blank":     `{"fileRef":"   "}`,
		"malformed": `{"fileRef":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			sub := &recordingSubmitter{}
			w := do(newTestRouter(sub, nil), http.MethodPost, "/v1/providers/ACME/catalog-versions", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, CodeInvalidRequest, env.Error.Code)
			assert.Empty(t, sub.reqs)
		})
	}
}

func TestCreateVersionWhileShuttingDown(t *testing.T) {
	sub := &recordingSubmitter{err: ingest.ErrRunnerClosed}

	w := do(newTestRouter(sub, nil), http.MethodPost, "/v1/providers/ACME/catalog-versions", `{"fileRef":"f"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListVersions(t *testing.T) {
	w := do(newTestRouter(&recordingSubmitter{}, nil), http.MethodGet, "/v1/providers/ACME/catalog-versions", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		ProviderID string `json:"providerId"`
		Versions   []struct {
			ID            string `json:"id"`
			VersionNumber int    `json:"versionNumber"`
			Status        string `json:"status"`
		} `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "p-1", body.ProviderID)
	require.Len(t, body.Versions, 2)
	assert.Equal(t, "PROCESSING", body.Versions[0].Status)
	assert.Equal(t, "ACTIVE", body.Versions[1].Status)
}

func TestListVersionsUnknownProvider(t *testing.T) {
	w := do(newTestRouter(&recordingSubmitter{}, nil), http.MethodGet, "/v1/providers/nope/catalog-versions", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndRequestMetrics(t *testing.T) {
	m := metrics.NewMetrics(metrics.Config{ServiceName: "catalog-ingest-test", Namespace: "test"})
	router := newTestRouter(&recordingSubmitter{}, m)

	w := do(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	do(router, http.MethodGet, "/v1/providers/nope/catalog-versions", "")

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	statuses := map[string]bool{}
	for _, f := range families {
		if f.GetName() != "test_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "status" {
					statuses[l.GetValue()] = true
				}
			}
		}
	}
	assert.Equal(t, map[string]bool{"200": true, "404": true}, statuses)
}
