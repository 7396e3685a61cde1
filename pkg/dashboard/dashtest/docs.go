package dashtest

// Discovery documents served by the test server. The API-prefixed mirror
// routes serve these same constants, keeping mirrored paths byte-identical.

const llmsText = `# Private Dashboard — Stats API
> Local network stats dashboard for The Pack.
> Displays key operational metrics with trend data across multiple time windows.

## API Base: /api/v1

## Endpoints

### GET /api/v1/health
Returns service status, version, and stat counts.

### POST /api/v1/stats
Submit a batch of stat snapshots. Requires Authorization: Bearer <manage_key>.
Body: Array of {"key": string, "value": number, "metadata?": object}.
Max 100 per batch. Keys must be 1-100 characters.

### GET /api/v1/stats
Returns all metrics with latest value, trend data (24h/7d/30d/90d), sparkline, and labels.
No auth required.

### GET /api/v1/stats/<key>?period=24h|7d|30d|90d
Returns time-series history for a single metric. Default period: 24h.
Custom ranges via start/end query parameters.

### DELETE /api/v1/stats/<key>
Delete all data for a metric. Requires Authorization: Bearer <manage_key>.

### POST /api/v1/stats/prune
Trigger retention cleanup. Requires Authorization: Bearer <manage_key>.

### GET /api/v1/alerts?key=<key>&limit=<1-500>
Returns recorded alerts, newest first. Default limit: 50.

## Auth
- Read endpoints: No auth (local network only)
- Write endpoints: Bearer token (manage key)
`

const openAPIJSON = `{
  "openapi": "3.0.3",
  "info": {"title": "Private Dashboard API", "version": "1.0.0"},
  "paths": {
    "/api/v1/health": {"get": {"summary": "Service health"}},
    "/api/v1/stats": {
      "get": {"summary": "All metrics with trends"},
      "post": {"summary": "Submit a batch of samples"}
    },
    "/api/v1/stats/{key}": {
      "get": {"summary": "Time-series history for one metric"},
      "delete": {"summary": "Delete all data for one metric"}
    },
    "/api/v1/stats/prune": {"post": {"summary": "Trigger retention cleanup"}},
    "/api/v1/alerts": {"get": {"summary": "Recorded alerts, newest first"}}
  }
}
`

const skillsIndexJSON = `{
  "skills": [
    {
      "name": "private-dashboard",
      "description": "Submit and read operational metrics on the private dashboard",
      "url": "/.well-known/skills/private-dashboard/SKILL.md"
    }
  ]
}
`

const skillMD = `---
name: private-dashboard
description: Submit and read operational metrics on the private dashboard
---

# Private Dashboard

Submit scalar metrics and read current values, trends, history, and alerts.

## Submit

POST /api/v1/stats with a bearer manage key and a JSON array of
{"key": string, "value": number, "metadata?": object} items (max 100).

## Read

- GET /api/v1/stats — all metrics with trends and sparklines
- GET /api/v1/stats/<key>?period=24h|7d|30d|90d — history
- GET /api/v1/alerts — recorded alerts, newest first
- GET /api/v1/health — service status
`
