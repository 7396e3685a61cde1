// Package dashtest provides an in-memory dashboard server for tests.
//
// The server implements the full dashboard wire contract — stats, history,
// submission, deletion, pruning, alerts, health, and the discovery
// documents — against an in-memory store, so SDK tests run without a real
// dashboard. It makes no durability claims and is not the dashboard
// service itself.
package dashtest

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/thepack/dashboard-go/pkg/httpx"
)

const (
	// DefaultWriteKey authorizes mutating requests unless overridden.
	DefaultWriteKey = "dash_test_key"

	// DefaultRetentionDays is the pruning horizon unless overridden.
	DefaultRetentionDays = 90

	defaultAlertLimit = 50
	maxAlertLimit     = 500
	maxBatchSize      = 100
	maxKeyLength      = 100
	sparklinePoints   = 12

	// Alert thresholds: absolute percentage change versus the previous
	// value. Hot is the higher severity.
	alertPct = 10.0
	hotPct   = 25.0
)

// Config holds test server options. The zero value is usable.
type Config struct {
	// WriteKey authorizes submit, delete, and prune. Defaults to
	// DefaultWriteKey.
	WriteKey string

	// RetentionDays sets the pruning horizon. Defaults to
	// DefaultRetentionDays.
	RetentionDays int

	// Version is reported by the health endpoint. Defaults to "1.0.0".
	Version string
}

// Server is an in-memory dashboard implementing http.Handler.
type Server struct {
	cfg    Config
	store  *store
	router *mux.Router
}

// New creates a test server. Use it with httptest.NewServer.
func New(cfg Config) *Server {
	if cfg.WriteKey == "" {
		cfg.WriteKey = DefaultWriteKey
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}

	s := &Server{cfg: cfg, store: newStore()}

	r := mux.NewRouter()
	r.UseEncodedPath()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/stats/prune", s.handlePrune).Methods("POST")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/stats", s.handleSubmit).Methods("POST")
	api.HandleFunc("/stats/{key}", s.handleHistory).Methods("GET")
	api.HandleFunc("/stats/{key}", s.handleDelete).Methods("DELETE")
	api.HandleFunc("/alerts", s.handleAlerts).Methods("GET")

	// Discovery documents; the API-prefixed mirrors serve identical bytes.
	r.HandleFunc("/llms.txt", s.handleLLMsTxt).Methods("GET")
	api.HandleFunc("/llms.txt", s.handleLLMsTxt).Methods("GET")
	r.HandleFunc("/openapi.json", s.handleOpenAPI).Methods("GET")
	r.HandleFunc("/.well-known/skills/index.json", s.handleSkillsIndex).Methods("GET")
	r.HandleFunc("/.well-known/skills/private-dashboard/SKILL.md", s.handleSkillMD).Methods("GET")
	api.HandleFunc("/.well-known/skills/private-dashboard/SKILL.md", s.handleSkillMD).Methods("GET")

	s.router = r
	return s
}

// ServeHTTP dispatches to the dashboard routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SeedPoint is one backdated metric point for Seed.
type SeedPoint struct {
	Value float64
	At    time.Time
}

// Seed inserts points for a key directly, bypassing validation and alert
// detection. Tests use it to backdate history for trend, range, and prune
// scenarios.
func (s *Server) Seed(key string, points ...SeedPoint) {
	for _, p := range points {
		s.store.insert(key, p.Value, p.At, nil)
	}
}

// SeedAlert records an alert directly.
func (s *Server) SeedAlert(key, level string, value, changePct float64, at time.Time) {
	s.store.insertAlert(alertRecord{
		key:         key,
		level:       level,
		value:       value,
		changePct:   changePct,
		triggeredAt: at,
	})
}

// ── Handlers ──

type healthResponse struct {
	Status        string     `json:"status"`
	Version       string     `json:"version"`
	StatsCount    int        `json:"stats_count"`
	KeysCount     int        `json:"keys_count"`
	RetentionDays int        `json:"retention_days"`
	OldestStat    *time.Time `json:"oldest_stat"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       s.cfg.Version,
		StatsCount:    s.store.count(),
		KeysCount:     len(s.store.keys()),
		RetentionDays: s.cfg.RetentionDays,
		OldestStat:    s.store.oldest(),
	})
}

type sampleInput struct {
	Key      string          `json:"key"`
	Value    float64         `json:"value"`
	Metadata json.RawMessage `json:"metadata"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		httpx.RespondError(w, http.StatusForbidden, "Invalid manage key")
		return
	}

	var batch []sampleInput
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(batch) == 0 {
		httpx.RespondError(w, http.StatusBadRequest, "Empty stats array")
		return
	}
	if len(batch) > maxBatchSize {
		httpx.RespondError(w, http.StatusBadRequest, "Too many stats (max 100)")
		return
	}

	now := time.Now().UTC()
	accepted := 0
	for _, item := range batch {
		if item.Key == "" || len(item.Key) > maxKeyLength {
			continue
		}
		var meta any
		if len(item.Metadata) > 0 {
			meta = item.Metadata
		}
		prev, hadPrev := s.store.insert(item.Key, item.Value, now, meta)
		accepted++

		if hadPrev && prev != 0 {
			pct := (item.Value - prev) / prev * 100
			if math.Abs(pct) >= alertPct {
				level := "alert"
				if math.Abs(pct) >= hotPct {
					level = "hot"
				}
				s.store.insertAlert(alertRecord{
					key:         item.Key,
					level:       level,
					value:       item.Value,
					changePct:   pct,
					triggeredAt: now,
				})
			}
		}
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]int{"accepted": accepted})
}

type trendOut struct {
	Start  *float64 `json:"start"`
	End    *float64 `json:"end"`
	Change *float64 `json:"change"`
	Pct    *float64 `json:"pct"`
}

type statOut struct {
	Key         string              `json:"key"`
	Label       string              `json:"label"`
	Current     float64             `json:"current"`
	Trends      map[string]trendOut `json:"trends"`
	Sparkline   []float64           `json:"sparkline_24h"`
	LastUpdated time.Time           `json:"last_updated"`
}

var trendPeriods = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	latest := s.store.latest()

	stats := make([]statOut, 0, len(latest))
	for _, rec := range latest {
		trends := make(map[string]trendOut, len(trendPeriods))
		for period, dur := range trendPeriods {
			trends[period] = s.trendFor(rec.key, rec.value, now.Add(-dur))
		}
		stats = append(stats, statOut{
			Key:         rec.key,
			Label:       keyLabel(rec.key),
			Current:     rec.value,
			Trends:      trends,
			Sparkline:   s.store.sparkline(rec.key, now.Add(-24*time.Hour), sparklinePoints),
			LastUpdated: rec.recordedAt,
		})
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (s *Server) trendFor(key string, current float64, since time.Time) trendOut {
	out := trendOut{End: &current}
	start, ok := s.store.valueAt(key, since)
	if !ok {
		return out
	}
	change := current - start
	out.Start = &start
	out.Change = &change
	if start != 0 {
		pct := change / start * 100
		out.Pct = &pct
	}
	return out
}

type pointOut struct {
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var start, end *time.Time
	if q.Get("start") != "" || q.Get("end") != "" {
		var err error
		start, err = parseBound(q.Get("start"), false)
		if err != nil {
			httpx.RespondError(w, http.StatusBadRequest, "Invalid start timestamp")
			return
		}
		end, err = parseBound(q.Get("end"), true)
		if err != nil {
			httpx.RespondError(w, http.StatusBadRequest, "Invalid end timestamp")
			return
		}
	} else {
		period := q.Get("period")
		if period == "" {
			period = "24h"
		}
		dur, ok := trendPeriods[period]
		if !ok {
			httpx.RespondError(w, http.StatusBadRequest, "Invalid period. Use 24h, 7d, 30d, or 90d")
			return
		}
		since := time.Now().UTC().Add(-dur)
		start = &since
	}

	records := s.store.history(key, start, end)
	points := make([]pointOut, 0, len(records))
	for _, rec := range records {
		points = append(points, pointOut{Value: rec.value, RecordedAt: rec.recordedAt})
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]any{"key": key, "points": points})
}

// parseBound accepts RFC3339 timestamps or calendar dates. A date-only
// end bound covers the whole day.
func parseBound(value string, isEnd bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	if isEnd {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		httpx.RespondError(w, http.StatusForbidden, "Invalid manage key")
		return
	}
	key, ok := pathKey(w, r)
	if !ok {
		return
	}

	deleted := s.store.deleteKey(key)
	if deleted == 0 {
		httpx.RespondError(w, http.StatusNotFound, "No data for key")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]any{"key": key, "deleted": deleted})
}

func (s *Server) handlePrune(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		httpx.RespondError(w, http.StatusForbidden, "Invalid manage key")
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, remaining := s.store.prune(cutoff)
	httpx.RespondJSON(w, http.StatusOK, map[string]int{
		"deleted":        deleted,
		"retention_days": s.cfg.RetentionDays,
		"remaining":      remaining,
	})
}

type alertOut struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Level       string    `json:"level"`
	Value       float64   `json:"value"`
	ChangePct   float64   `json:"change_pct"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// handleAlerts lists alerts newest first. Limit clamping: missing or
// negative means the default of 50, zero returns an empty page, values
// above 500 are capped at 500. Out-of-range limits never error.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultAlertLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.RespondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		switch {
		case n < 0:
			limit = defaultAlertLimit
		case n > maxAlertLimit:
			limit = maxAlertLimit
		default:
			limit = n
		}
	}

	key := q.Get("key")
	matched := s.store.recentAlerts(key, limit)
	total := s.store.alertCount()
	if key != "" {
		total = len(s.store.recentAlerts(key, s.store.alertCount()))
	}

	alerts := make([]alertOut, 0, len(matched))
	for _, a := range matched {
		alerts = append(alerts, alertOut{
			Key:         a.key,
			Label:       keyLabel(a.key),
			Level:       a.level,
			Value:       a.value,
			ChangePct:   a.changePct,
			TriggeredAt: a.triggeredAt,
		})
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "total": total})
}

func (s *Server) handleLLMsTxt(w http.ResponseWriter, r *http.Request) {
	httpx.RespondText(w, http.StatusOK, llmsText)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(openAPIJSON))
}

func (s *Server) handleSkillsIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(skillsIndexJSON))
}

func (s *Server) handleSkillMD(w http.ResponseWriter, r *http.Request) {
	httpx.RespondText(w, http.StatusOK, skillMD)
}

// ── Helpers ──

func (s *Server) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	return ok && token == s.cfg.WriteKey
}

// pathKey extracts and unescapes the {key} path segment.
func pathKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := mux.Vars(r)["key"]
	key, err := url.PathUnescape(raw)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid key encoding")
		return "", false
	}
	return key, true
}

var knownLabels = map[string]string{
	"tests_total":   "Total Tests",
	"repos_count":   "Repositories",
	"commits_total": "Total Commits",
	"deploys_count": "Deployments",
}

// keyLabel produces a human-readable label for a metric key.
func keyLabel(key string) string {
	if label, ok := knownLabels[key]; ok {
		return label
	}
	return strings.ReplaceAll(key, "_", " ")
}
