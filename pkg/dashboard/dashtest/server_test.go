package dashtest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func doRequest(t *testing.T, s *Server, method, path string, body []byte, key string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestAlertLimitClamping(t *testing.T) {
	s := New(Config{})
	now := time.Now().UTC()
	for i := 0; i < 60; i++ {
		s.SeedAlert("m", "alert", float64(i), 12, now.Add(time.Duration(-i)*time.Minute))
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 50},          // default
		{"?limit=5", 5},   // as given
		{"?limit=0", 0},   // zero means an empty page
		{"?limit=-3", 50},  // negative falls back to the default
		{"?limit=600", 60}, // capped at 500; only 60 exist
	}

	for _, tc := range cases {
		w := doRequest(t, s, "GET", "/api/v1/alerts"+tc.query, nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("limit query %q: status %d", tc.query, w.Code)
		}
		var resp struct {
			Alerts []json.RawMessage `json:"alerts"`
			Total  int               `json:"total"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Alerts) != tc.want {
			t.Errorf("limit query %q: expected %d alerts, got %d", tc.query, tc.want, len(resp.Alerts))
		}
		if resp.Total != 60 {
			t.Errorf("limit query %q: expected total 60, got %d", tc.query, resp.Total)
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	s := New(Config{WriteKey: "k"})

	// No auth
	w := doRequest(t, s, "POST", "/api/v1/stats", []byte(`[{"key":"a","value":1}]`), "")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 without auth, got %d", w.Code)
	}

	// Empty batch
	w = doRequest(t, s, "POST", "/api/v1/stats", []byte(`[]`), "k")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty batch, got %d", w.Code)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &errResp)
	if errResp.Error != "Empty stats array" {
		t.Errorf("unexpected error message: %q", errResp.Error)
	}

	// Oversized key is skipped, not fatal
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	body, _ := json.Marshal([]map[string]any{
		{"key": string(long), "value": 1},
		{"key": "fine", "value": 2},
	})
	w = doRequest(t, s, "POST", "/api/v1/stats", body, "k")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Accepted int `json:"accepted"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Accepted != 1 {
		t.Errorf("expected 1 accepted, got %d", resp.Accepted)
	}
}

func TestTrendsAndSparkline(t *testing.T) {
	s := New(Config{})
	now := time.Now().UTC()

	// 30 points over the last 24h so the sparkline must downsample.
	for i := 0; i < 30; i++ {
		s.Seed("busy_metric", SeedPoint{Value: float64(i), At: now.Add(time.Duration(-i) * 30 * time.Minute)})
	}

	w := doRequest(t, s, "GET", "/api/v1/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats failed: %d", w.Code)
	}

	var resp struct {
		Stats []struct {
			Key       string                          `json:"key"`
			Trends    map[string]map[string]*float64 `json:"trends"`
			Sparkline []float64                       `json:"sparkline_24h"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Stats) != 1 {
		t.Fatalf("expected 1 stat, got %d", len(resp.Stats))
	}

	stat := resp.Stats[0]
	for _, period := range []string{"24h", "7d", "30d", "90d"} {
		if _, ok := stat.Trends[period]; !ok {
			t.Errorf("missing trend window %s", period)
		}
	}
	if len(stat.Sparkline) != sparklinePoints {
		t.Errorf("expected %d sparkline points, got %d", sparklinePoints, len(stat.Sparkline))
	}
}

func TestAlertDetectionThresholds(t *testing.T) {
	s := New(Config{WriteKey: "k"})

	submit := func(value float64) {
		body, _ := json.Marshal([]map[string]any{{"key": "m", "value": value}})
		w := doRequest(t, s, "POST", "/api/v1/stats", body, "k")
		if w.Code != http.StatusOK {
			t.Fatalf("submit %v failed: %d", value, w.Code)
		}
	}

	submit(100) // baseline, no alert
	submit(105) // +5%, below threshold
	submit(120) // ~+14%, alert
	submit(90)  // -25%, hot

	if got := s.store.alertCount(); got != 2 {
		t.Fatalf("expected 2 alerts, got %d", got)
	}
	alerts := s.store.recentAlerts("m", 10)
	if alerts[0].level != "hot" {
		t.Errorf("newest alert should be hot, got %q", alerts[0].level)
	}
	if alerts[1].level != "alert" {
		t.Errorf("expected alert level, got %q", alerts[1].level)
	}
}

func TestPruneEndpoint(t *testing.T) {
	s := New(Config{WriteKey: "k", RetentionDays: 30})
	now := time.Now().UTC()
	s.Seed("m",
		SeedPoint{Value: 1, At: now.AddDate(0, 0, -45)},
		SeedPoint{Value: 2, At: now},
	)

	w := doRequest(t, s, "POST", "/api/v1/stats/prune", nil, "k")
	if w.Code != http.StatusOK {
		t.Fatalf("prune failed: %d", w.Code)
	}
	var resp struct {
		Deleted       int `json:"deleted"`
		RetentionDays int `json:"retention_days"`
		Remaining     int `json:"remaining"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Deleted != 1 || resp.Remaining != 1 || resp.RetentionDays != 30 {
		t.Errorf("unexpected prune result: %+v", resp)
	}
}

func TestDiscoveryMirrorsAreIdentical(t *testing.T) {
	s := New(Config{})

	llms := doRequest(t, s, "GET", "/llms.txt", nil, "")
	llmsMirror := doRequest(t, s, "GET", "/api/v1/llms.txt", nil, "")
	if llms.Body.String() != llmsMirror.Body.String() {
		t.Error("llms.txt mirror differs")
	}

	skill := doRequest(t, s, "GET", "/.well-known/skills/private-dashboard/SKILL.md", nil, "")
	skillMirror := doRequest(t, s, "GET", "/api/v1/.well-known/skills/private-dashboard/SKILL.md", nil, "")
	if skill.Body.String() != skillMirror.Body.String() {
		t.Error("SKILL.md mirror differs")
	}
	if skill.Code != http.StatusOK || skill.Body.Len() == 0 {
		t.Error("SKILL.md missing")
	}
}
