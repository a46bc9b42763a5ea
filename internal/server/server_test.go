package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconomyBench/internal/catalog"
	"EconomyBench/internal/model"
	"EconomyBench/internal/report"
)

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Assets: map[string]*model.Asset{"blog": {BaseIncome: 10}},
		Tracks: map[string]*model.Track{
			"seo":  {SetupCost: 10, Schedule: model.TrackSchedule{Days: 1, MinutesPerDay: 60}},
			"idle": {SetupCost: 10, Schedule: model.TrackSchedule{Days: 1, MinutesPerDay: 60}},
		},
		Modifiers: []model.Modifier{
			{Source: "seo", Target: "asset:blog.income", Type: model.ModifierMultiplier, Formula: "1.5"},
		},
	}
}

func testServer(src catalog.Source) *Server {
	cfg := model.DefaultSimulationConfig()
	cfg.BuildStarterAsset = false
	return New(Config{
		Log:    zerolog.Nop(),
		Source: src,
		Defaults: report.Options{
			Config:      cfg,
			Days:        5,
			HorizonDays: 30,
		},
	})
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestHealth(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})
	w, body := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "static", body["catalog"])
}

func TestCatalog(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})
	w, body := do(t, s, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"blog"}, body["assets"])
	assert.Equal(t, []any{"idle", "seo"}, body["tracks"])
	assert.Equal(t, 1.0, body["modifiers"])

	w, _ = do(t, testServer(&catalog.StaticSource{}), http.MethodGet, "/api/catalog", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSimulate(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})

	w, body := do(t, s, http.MethodPost, "/api/simulate", `{"asset_ids":["blog"],"record":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["ledger"], 5)
	assert.NotEmpty(t, body["run_id"])

	summary := body["summary"].(map[string]any)
	assert.InDelta(t, 95.0, summary["final_cash"], 1e-9)

	rates := body["daily_rates"].(map[string]any)["asset_income_per_day"].(map[string]any)
	assert.InDelta(t, 10.0, rates["blog"], 1e-9)

	w, body = do(t, s, http.MethodPost, "/api/simulate", `{"days":2,"config":{"starting_cash":100}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["ledger"], 2)
	assert.InDelta(t, 100.0, body["summary"].(map[string]any)["final_cash"], 1e-9)
	assert.Equal(t, 45.0, s.defaults.Config.StartingCash)
}

func TestSimulate_BadInput(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})

	for name, body := range map[string]string{
		"malformed":           `{"days":`,
		"negative days":       `{"days":-1}`,
		"too many days":       `{"days":100000}`,
		"bad config":          `{"config":{"starting_cash":"lots"}}`,
		"too many assistants": `{"days":2,"assistants":1000000000}`,
		"huge hire cost":      `{"days":2,"assistants":2,"config":{"assistant_hire_cost":-1e308}}`,
		"huge tuning":         `{"config":{"asset_tuning":{"blog":{"income_multiplier":1e200}}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			w, out := do(t, s, http.MethodPost, "/api/simulate", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestROI_NullPayback(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})

	w, body := do(t, s, http.MethodPost, "/api/roi", `{"asset_ids":["blog"],"horizon_days":10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 10.0, body["horizon_days"])

	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	seo, idle := rows[0].(map[string]any), rows[1].(map[string]any)

	assert.Equal(t, "seo", seo["track"])
	assert.InDelta(t, 5.0, seo["incremental_daily"], 1e-9)
	assert.InDelta(t, 2.0, seo["payback_days"], 1e-9)

	assert.Equal(t, "idle", idle["track"])
	assert.Contains(t, idle, "payback_days")
	assert.Nil(t, idle["payback_days"])
}

func TestPlan(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})

	w, body := do(t, s, http.MethodPost, "/api/plan", `{"asset_ids":["blog"],"upgrade_ids":["seo"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assets := body["assets"].([]any)
	require.Len(t, assets, 1)
	blog := assets[0].(map[string]any)
	assert.Equal(t, "blog", blog["asset_id"])
	assert.InDelta(t, 15.0, blog["daily_income"], 1e-9)
}

func TestSensitivity(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})

	w, body := do(t, s, http.MethodPost, "/api/sensitivity",
		`{"parameter":"starting_cash","span":2,"samples":3,"config":{"asset_ids":["blog"]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	points := body["points"].([]any)
	require.Len(t, points, 3)
	want := []float64{72.5, 106.25, 140}
	for i, p := range points {
		assert.InDelta(t, want[i], p.(map[string]any)["final_cash"], 1e-9)
	}

	w, _ = do(t, s, http.MethodPost, "/api/sensitivity", `{"parameter":"luck","span":2,"samples":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSensitivity_BoundsSweep(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})

	for name, body := range map[string]string{
		"too many samples":    `{"parameter":"starting_cash","span":2,"samples":1000000000}`,
		"too wide span":       `{"parameter":"starting_cash","span":1e300,"samples":3}`,
		"too many assistants": `{"parameter":"starting_cash","span":2,"samples":3,"assistants":1000000000}`,
	} {
		t.Run(name, func(t *testing.T) {
			w, out := do(t, s, http.MethodPost, "/api/sensitivity", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestWriteJSON_UnencodableIsServerError(t *testing.T) {
	s := testServer(&catalog.StaticSource{Catalog: testCatalog()})

	w := httptest.NewRecorder()
	s.writeJSON(w, http.StatusOK, map[string]float64{"final_cash": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "failed to encode response", out["error"])
}
