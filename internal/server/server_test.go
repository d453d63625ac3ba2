package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/config"
	"gwplanner/internal/database"
	cataloghandlers "gwplanner/internal/modules/catalog/handlers"
	"gwplanner/internal/modules/insights"
	insightshandlers "gwplanner/internal/modules/insights/handlers"
	"gwplanner/internal/modules/planning"
	planninghandlers "gwplanner/internal/modules/planning/handlers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bootstrap-static/":
			_ = json.NewEncoder(w).Encode(fpl.Bootstrap{
				Events: []fpl.Event{{ID: 1, IsCurrent: true}},
				Teams:  []fpl.Team{{ID: 1, Name: "Home FC", Strength: 3}},
				Elements: []fpl.Element{
					{ID: 1, WebName: "P1", Team: 1, ElementType: 1},
				},
			})
		case "/fixtures/":
			_ = json.NewEncoder(w).Encode([]fpl.Fixture{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	db, err := database.New(database.Config{
		Path:    "file:server_test_" + t.Name() + "?mode=memory&cache=shared",
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	client := fpl.NewClient(upstream.URL, nil, log)

	return New(Config{
		Log:      log,
		Cfg:      &config.Config{Port: 8000, DevMode: true},
		CacheDB:  db,
		Catalog:  cataloghandlers.NewHandler(client, log),
		Planning: planninghandlers.NewHandler(planning.NewService(client, log), log),
		Insights: insightshandlers.NewHandler(insights.NewService(client, log), log),
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSystemHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime_seconds")
	assert.Contains(t, body, "cache_db")
}

func TestToolsRoutesMounted(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tools/get_names_index", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tools/get_fixtures", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
