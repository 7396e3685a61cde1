package dashboard

import "context"

// Value returns a metric's current value. ok is false when the key is not
// tracked.
func (c *Client) Value(ctx context.Context, key string) (value float64, ok bool, err error) {
	s, err := c.Stat(ctx, key)
	if err != nil || s == nil {
		return 0, false, err
	}
	return s.Current, true, nil
}

// Trend returns a metric's percentage change over a period. ok is false
// when the key is not tracked or the window has no computed percentage.
func (c *Client) Trend(ctx context.Context, key, period string) (pct float64, ok bool, err error) {
	s, err := c.Stat(ctx, key)
	if err != nil || s == nil {
		return 0, false, err
	}
	w, found := s.Trends[period]
	if !found || w.Pct == nil {
		return 0, false, nil
	}
	return *w.Pct, true, nil
}

// SubmitOne submits a single sample and reports whether the server
// accepted it. Requires the write key.
func (c *Client) SubmitOne(ctx context.Context, key string, value float64, metadata map[string]any) (bool, error) {
	accepted, err := c.Submit(ctx, []Sample{{Key: key, Value: value, Metadata: metadata}})
	if err != nil {
		return false, err
	}
	return accepted >= 1, nil
}

// IsHealthy reports whether the dashboard is reachable and healthy. It
// never returns an error; any failure reads as false.
func (c *Client) IsHealthy(ctx context.Context) bool {
	h, err := c.Health(ctx)
	return err == nil && h.Status == "ok"
}

// HotAlerts returns only hot-level alerts from the most recent limit
// alerts.
func (c *Client) HotAlerts(ctx context.Context, limit int) ([]AlertEvent, error) {
	alerts, err := c.Alerts(ctx, AlertOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	hot := make([]AlertEvent, 0, len(alerts))
	for _, a := range alerts {
		if a.Level == AlertLevelHot {
			hot = append(hot, a)
		}
	}
	return hot, nil
}

// Keys returns every tracked metric key, in the stats listing's order.
func (c *Client) Keys(ctx context.Context) ([]string, error) {
	stats, err := c.Stats(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(stats))
	for _, s := range stats {
		keys = append(keys, s.Key)
	}
	return keys, nil
}
