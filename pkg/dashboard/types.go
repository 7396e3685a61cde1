package dashboard

import "time"

// Trend periods recognized by the dashboard.
const (
	Period24h = "24h"
	Period7d  = "7d"
	Period30d = "30d"
	Period90d = "90d"
)

// Alert severity levels. Hot is raised on the larger relative change.
const (
	AlertLevelAlert = "alert"
	AlertLevelHot   = "hot"
)

// Sample is one metric submission: a key, a value, and optional metadata.
type Sample struct {
	Key      string         `json:"key"`
	Value    float64        `json:"value"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TrendWindow compares a metric's value at the start and end of a lookback
// period. Fields are nil when the window holds no usable data (start
// missing, or percentage undefined against a zero baseline).
type TrendWindow struct {
	Start  *float64 `json:"start"`
	End    *float64 `json:"end"`
	Change *float64 `json:"change"`
	Pct    *float64 `json:"pct"`
}

// StatSummary is the dashboard's current view of one metric.
type StatSummary struct {
	Key         string                 `json:"key"`
	Label       string                 `json:"label"`
	Current     float64                `json:"current"`
	Trends      map[string]TrendWindow `json:"trends"`
	Sparkline   []float64              `json:"sparkline_24h"`
	LastUpdated time.Time              `json:"last_updated"`
}

// HistoryPoint is one recorded value in a metric's time series.
type HistoryPoint struct {
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// AlertEvent is one recorded alert, raised by the server on a significant
// metric change.
type AlertEvent struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Level       string    `json:"level"`
	Value       float64   `json:"value"`
	ChangePct   float64   `json:"change_pct"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// HealthStatus reports service status and storage counts. StatsCount is
// the number of stored points and is always >= KeysCount.
type HealthStatus struct {
	Status        string     `json:"status"`
	Version       string     `json:"version"`
	StatsCount    int        `json:"stats_count"`
	KeysCount     int        `json:"keys_count"`
	RetentionDays int        `json:"retention_days"`
	OldestStat    *time.Time `json:"oldest_stat"`
}

// PruneResult reports the outcome of a retention cleanup.
type PruneResult struct {
	Deleted       int `json:"deleted"`
	RetentionDays int `json:"retention_days"`
	Remaining     int `json:"remaining"`
}
