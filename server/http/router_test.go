package serverhttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brain-service/internal/brain/handler"
	"brain-service/internal/brain/model"
	"brain-service/internal/brain/resolver"
	"brain-service/internal/config"
	"brain-service/internal/metrics"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	rows := []model.CatalogRow{
		{Name: "Фанта Апельсин 1л ПЭТ", Brand: "FANTA", Producer: "Кока-Кола", Category: "ГАЗИРОВКА", Volume: 1},
	}
	b := handler.NewBrain(resolver.Build(rows, model.DefaultOptions(), zerolog.Nop()))

	reg := prometheus.NewRegistry()
	m := metrics.New()
	m.Register(reg)

	cfg := config.Config{AllowOrigins: []string{"*"}, MaxUploadMB: 1, BatchWorkers: 1}
	return NewRouter(cfg, zerolog.Nop(), b, m, reg)
}

func TestRouter_LookupAndMetrics(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/lookup", strings.NewReader(`{"query":"фанта апельсин 1л пэт"}`))
	req.Header.Set("X-Request-ID", "rid-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"method": "exact"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `brain_lookups_total{method="exact"} 1`)
	assert.Contains(t, body, `brain_http_requests_total{method="POST",route="/lookup",status="200"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/lookup", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
