package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexgrove/dealflow-cli/internal/filter"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newRouter(filter.Default(), 2))
	t.Cleanup(srv.Close)
	return srv
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServePresets(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/presets")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestServeScore(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"company_name": "SolarTech",
		"funding_stage": "seed",
		"has_ai_focus": true,
		"climate_sectors": ["Climate Tech - Energy & Grid"],
		"headquarters_country": "US",
		"amount_raised_usd": 5000000,
		"media_mentions": 1,
		"confidence_score": 0.9
	}`

	resp, err := http.Post(srv.URL+"/api/score", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeScore_BadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/score", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeScore_InvalidRecord(t *testing.T) {
	srv := newTestServer(t)

	// Valid JSON, but no company name.
	resp, err := http.Post(srv.URL+"/api/score", "application/json", strings.NewReader(`{"funding_stage":"seed"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServeBatch(t *testing.T) {
	srv := newTestServer(t)

	body := `[
		{"company_name": "SolarTech", "funding_stage": "seed", "has_ai_focus": true, "source_type": "news"},
		{"company_name": "SolarTech", "funding_stage": "seed", "has_ai_focus": true, "source_type": "news"}
	]`

	resp, err := http.Post(srv.URL+"/api/batch", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
