package dashtest

import (
	"sort"
	"sync"
	"time"
)

// record is one stored metric point.
type record struct {
	key        string
	value      float64
	recordedAt time.Time
	metadata   any
	seq        int64
}

// alertRecord is one raised alert.
type alertRecord struct {
	key         string
	level       string
	value       float64
	changePct   float64
	triggeredAt time.Time
}

// store keeps metric points and alerts in memory. Data is lost when the
// server goes away, which is the point.
type store struct {
	mu      sync.RWMutex
	records []record
	alerts  []alertRecord
	seq     int64
}

func newStore() *store {
	return &store{records: make([]record, 0, 1024)}
}

// insert stores one point and returns the previous latest value for the
// key, for alert detection.
func (s *store) insert(key string, value float64, at time.Time, metadata any) (prev float64, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.latestLocked(key)
	s.seq++
	s.records = append(s.records, record{
		key:        key,
		value:      value,
		recordedAt: at,
		metadata:   metadata,
		seq:        s.seq,
	})
	return prev, hadPrev
}

func (s *store) latestLocked(key string) (float64, bool) {
	var best *record
	for i := range s.records {
		r := &s.records[i]
		if r.key != key {
			continue
		}
		if best == nil || r.seq > best.seq {
			best = r
		}
	}
	if best == nil {
		return 0, false
	}
	return best.value, true
}

// latest returns the newest point per key, ordered by key.
func (s *store) latest() []record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKey := make(map[string]record)
	for _, r := range s.records {
		if cur, ok := byKey[r.key]; !ok || r.seq > cur.seq {
			byKey[r.key] = r
		}
	}
	out := make([]record, 0, len(byKey))
	for _, r := range byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// history returns a key's points within [start, end], oldest first. A nil
// bound is open.
func (s *store) history(key string, start, end *time.Time) []record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []record
	for _, r := range s.records {
		if r.key != key {
			continue
		}
		if start != nil && r.recordedAt.Before(*start) {
			continue
		}
		if end != nil && r.recordedAt.After(*end) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].recordedAt.Equal(out[j].recordedAt) {
			return out[i].seq < out[j].seq
		}
		return out[i].recordedAt.Before(out[j].recordedAt)
	})
	return out
}

// sparkline downsamples a key's history since a time to at most n evenly
// spaced values.
func (s *store) sparkline(key string, since time.Time, n int) []float64 {
	points := s.history(key, &since, nil)
	if len(points) == 0 {
		return []float64{}
	}
	if len(points) <= n {
		out := make([]float64, len(points))
		for i, p := range points {
			out[i] = p.value
		}
		return out
	}
	step := float64(len(points)) / float64(n)
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * step)
		if idx > len(points)-1 {
			idx = len(points) - 1
		}
		out = append(out, points[idx].value)
	}
	return out
}

// valueAt returns the newest value recorded at or before a time.
func (s *store) valueAt(key string, at time.Time) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *record
	for i := range s.records {
		r := &s.records[i]
		if r.key != key || r.recordedAt.After(at) {
			continue
		}
		if best == nil || r.recordedAt.After(best.recordedAt) {
			best = r
		}
	}
	if best == nil {
		return 0, false
	}
	return best.value, true
}

// deleteKey removes every point for a key and returns how many.
func (s *store) deleteKey(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	deleted := 0
	for _, r := range s.records {
		if r.key == key {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted
}

// prune removes points older than the cutoff and reports deleted and
// remaining counts.
func (s *store) prune(cutoff time.Time) (deleted, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if r.recordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, len(s.records)
}

func (s *store) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *store) keys() []string {
	latest := s.latest()
	out := make([]string, 0, len(latest))
	for _, r := range latest {
		out = append(out, r.key)
	}
	return out
}

func (s *store) oldest() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var oldest *time.Time
	for i := range s.records {
		at := s.records[i].recordedAt
		if oldest == nil || at.Before(*oldest) {
			oldest = &at
		}
	}
	return oldest
}

func (s *store) insertAlert(a alertRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
}

// recentAlerts returns alerts newest first, optionally filtered by key,
// capped at limit.
func (s *store) recentAlerts(key string, limit int) []alertRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]alertRecord, 0, len(s.alerts))
	for _, a := range s.alerts {
		if key != "" && a.key != key {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].triggeredAt.After(out[j].triggeredAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *store) alertCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}
