package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketscope/radar-cli/internal/config"
)

// newTestEngine wires an engine against fake indicator and gazetteer
// upstreams.
func newTestEngine(t *testing.T, wbHandler, gazHandler http.HandlerFunc) *engine {
	t.Helper()

	wbSrv := httptest.NewServer(wbHandler)
	t.Cleanup(wbSrv.Close)
	gazSrv := httptest.NewServer(gazHandler)
	t.Cleanup(gazSrv.Close)

	c := &config.Config{}
	c.Sources.WorldBankURL = wbSrv.URL
	c.Sources.GazetteerURL = gazSrv.URL
	c.Sources.OverpassURL = "http://127.0.0.1:0"
	c.Sources.OverpassRPS = 1000
	c.Cache.IndicatorTTLHours = 24
	c.Cache.GeospatialTTLMins = 60
	c.Query.RadiusKM = 10
	c.Weights = config.WeightsConfig{
		Population: 1.2, GDPPerCapita: 1.0, Inflation: 1.0,
		Unemployment: 1.0, Growth: 0.8, Risk: 0.6,
	}

	env, err := newEngine(c)
	require.NoError(t, err)
	return env
}

func wbFixture(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`[{"page":1},[{"date":"2023","value":5.0}]]`))
}

func gazFixture(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"records":[
		{"fields":{"name":"Lisbon","cou_name_en":"Portugal","population":545796,"coordinates":[38.7223,-9.1393]}},
		{"fields":{"name":"Porto","cou_name_en":"Portugal","population":237591,"coordinates":[41.1496,-8.6110]}}
	]}`))
}

func serveJSON(t *testing.T, mux *http.ServeMux, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var body map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func TestBuildMux_Health(t *testing.T) {
	mux := buildMux(newTestEngine(t, wbFixture, gazFixture))

	rr, body := serveJSON(t, mux, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "ok", body["status"])
}

func TestBuildMux_Snapshot(t *testing.T) {
	mux := buildMux(newTestEngine(t, wbFixture, gazFixture))

	rr, body := serveJSON(t, mux, "/api/snapshot/prt")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "PRT", body["country"])
	assert.Equal(t, "low", body["risk_level"])
	assert.InDelta(t, 100.0, body["data_quality"].(float64), 0.001)

	observations, ok := body["indicators"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, observations, 13)
}

func TestBuildMux_SnapshotUpstreamDown(t *testing.T) {
	// Every indicator degrades to absent; the endpoint still answers 200
	// with an empty snapshot rather than failing.
	down := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}
	mux := buildMux(newTestEngine(t, down, gazFixture))

	rr, body := serveJSON(t, mux, "/api/snapshot/PRT")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "unknown", body["risk_level"])
	assert.InDelta(t, 0.0, body["data_quality"].(float64), 0.001)
}

func TestBuildMux_Cities(t *testing.T) {
	mux := buildMux(newTestEngine(t, wbFixture, gazFixture))

	rr, body := serveJSON(t, mux, "/api/cities/pt")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "PT", body["country"])
	cities, ok := body["cities"].([]any)
	require.True(t, ok)
	assert.Len(t, cities, 2)
}

func TestBuildMux_CitiesLimit(t *testing.T) {
	mux := buildMux(newTestEngine(t, wbFixture, gazFixture))

	t.Run("limit truncates", func(t *testing.T) {
		_, body := serveJSON(t, mux, "/api/cities/PT?limit=1")
		assert.Len(t, body["cities"].([]any), 1)
	})

	t.Run("malformed limit falls back to all", func(t *testing.T) {
		_, body := serveJSON(t, mux, "/api/cities/PT?limit=abc")
		assert.Len(t, body["cities"].([]any), 2)
	})
}

func TestBuildMux_CitiesUpstreamDown(t *testing.T) {
	down := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	mux := buildMux(newTestEngine(t, wbFixture, down))

	rr, body := serveJSON(t, mux, "/api/cities/PT")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, body["error"], "unexpected status 503")
}

func TestBuildMux_Rank(t *testing.T) {
	mux := buildMux(newTestEngine(t, wbFixture, gazFixture))

	rr, body := serveJSON(t, mux, "/api/rank?country=PRT&cities=PT&top=1")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "PRT", body["country"])
	ranked, ok := body["ranking"].([]any)
	require.True(t, ok)
	require.Len(t, ranked, 1)
	first := ranked[0].(map[string]any)
	assert.Equal(t, "Lisbon", first["name"])
}

func TestBuildMux_RankMissingParams(t *testing.T) {
	mux := buildMux(newTestEngine(t, wbFixture, gazFixture))

	for _, target := range []string{"/api/rank", "/api/rank?country=PRT", "/api/rank?cities=PT"} {
		rr, _ := serveJSON(t, mux, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Contains(t, rr.Body.String(), "required")
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/rank?top=7&bad=xyz", nil)

	assert.Equal(t, 7, queryInt(req, "top", 10))
	assert.Equal(t, 10, queryInt(req, "bad", 10))
	assert.Equal(t, 10, queryInt(req, "absent", 10))
}

func TestResolvePort(t *testing.T) {
	assert.Equal(t, 9090, resolvePort(9090, 8080))
	assert.Equal(t, 8080, resolvePort(0, 8080))
}
