/*
Package dashboard is a client for the private dashboard metrics API.

# Quick Start

Create a client and submit metrics:

	package main

	import (
	    "context"
	    "log"

	    "github.com/thepack/dashboard-go/pkg/dashboard"
	)

	func main() {
	    client, err := dashboard.New(dashboard.Config{
	        BaseURL:  "http://localhost:3008",
	        WriteKey: "dash_abc123",
	    })
	    if err != nil {
	        log.Fatal(err)
	    }

	    ctx := context.Background()

	    // Submit metric values
	    accepted, err := client.SubmitValues(ctx, map[string]float64{
	        "tests_total": 1500,
	        "repos_count": 9,
	    })
	    if err != nil {
	        log.Fatal(err)
	    }
	    log.Printf("accepted %d metrics", accepted)

	    // Read all metrics with trends
	    stats, err := client.Stats(ctx)
	    if err != nil {
	        log.Fatal(err)
	    }
	    for _, s := range stats {
	        log.Printf("%s: %v", s.Label, s.Current)
	    }
	}

BaseURL and WriteKey fall back to the DASHBOARD_URL and DASHBOARD_KEY
environment variables. The write key is only needed for Submit, Delete,
and Prune; every read operation is unauthenticated.

# Submitting

Two input shapes converge on one batch: SubmitValues takes a plain
key→value map, Submit takes explicit samples when metadata is needed:

	client.Submit(ctx, []dashboard.Sample{
	    {Key: "tests_total", Value: 1500, Metadata: map[string]any{"source": "CI"}},
	})

The server enforces batch bounds (1..100 items, keys 1..100 characters)
and may accept fewer items than submitted; Submit returns the server's
accepted count as reported.

# History and Trends

	// Last 7 days
	points, err := client.History(ctx, "tests_total", dashboard.HistoryOptions{
	    Period: dashboard.Period7d,
	})

	// Explicit range (ISO-8601 timestamps or calendar dates)
	points, err = client.History(ctx, "tests_total", dashboard.HistoryOptions{
	    Start: "2026-01-01",
	    End:   "2026-02-01",
	})

	// Percentage change over 24h
	pct, ok, err := client.Trend(ctx, "tests_total", dashboard.Period24h)

# Errors

Every failure is one *apierr.Error tagged with a Kind. Branch on the kind,
not the message:

	_, err := client.Delete(ctx, "gone")
	if apierr.IsKind(err, apierr.NotFound) {
	    // key held no data
	}

The client never retries; rate-limit errors carry the server's
Retry-After hint for callers that want to back off.

# Testing

The dashtest subpackage provides an in-memory dashboard server for
hermetic tests:

	srv := httptest.NewServer(dashtest.New(dashtest.Config{WriteKey: "k"}))
	defer srv.Close()

	client, _ := dashboard.New(dashboard.Config{BaseURL: srv.URL, WriteKey: "k"})
*/
package dashboard
