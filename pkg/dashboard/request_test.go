package dashboard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryOptions_DefaultPeriod(t *testing.T) {
	q := HistoryOptions{}.query()
	require.Equal(t, "period=24h", q.Encode())
}

func TestHistoryOptions_ExplicitPeriod(t *testing.T) {
	q := HistoryOptions{Period: Period90d}.query()
	require.Equal(t, "period=90d", q.Encode())
}

func TestHistoryOptions_RangeWinsOverPeriod(t *testing.T) {
	q := HistoryOptions{Period: Period7d, Start: "2026-01-01", End: "2026-02-01"}.query()

	require.Equal(t, "2026-01-01", q.Get("start"))
	require.Equal(t, "2026-02-01", q.Get("end"))
	require.Empty(t, q.Get("period"))
}

func TestHistoryOptions_PartialRangePassedThrough(t *testing.T) {
	// A lone bound is sent as given; the server decides what it means.
	q := HistoryOptions{Start: "2026-01-01"}.query()
	require.Equal(t, "start=2026-01-01", q.Encode())

	q = HistoryOptions{End: "2026-12-31"}.query()
	require.Equal(t, "end=2026-12-31", q.Encode())
}

func TestHistoryOptions_RangeNotParsed(t *testing.T) {
	// Range bounds are opaque to the client, even nonsense ones.
	q := HistoryOptions{Start: "not a date", End: "also not"}.query()
	require.Equal(t, "not a date", q.Get("start"))
	require.Equal(t, "also not", q.Get("end"))
}

func TestAlertOptions(t *testing.T) {
	require.Equal(t, "", AlertOptions{}.query().Encode())
	require.Equal(t, "limit=5", AlertOptions{Limit: 5}.query().Encode())
	require.Equal(t, "key=tests_total&limit=500", AlertOptions{Key: "tests_total", Limit: 500}.query().Encode())

	// Non-positive limits are omitted; the server applies its default.
	require.Equal(t, "", AlertOptions{Limit: -1}.query().Encode())
}

func TestStatPath_Escaping(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"tests_total", "/api/v1/stats/tests_total"},
		{"a/b", "/api/v1/stats/a%2Fb"},
		{"with space", "/api/v1/stats/with%20space"},
		{"q?x=1", "/api/v1/stats/q%3Fx=1"},
		{"日本語", "/api/v1/stats/%E6%97%A5%E6%9C%AC%E8%AA%9E"},
	}

	for _, tc := range cases {
		got := statPath(tc.key)
		require.Equal(t, tc.want, got, "key %q", tc.key)

		// Escaped keys must round-trip as a single path segment.
		segment := got[len("/api/v1/stats/"):]
		back, err := url.PathUnescape(segment)
		require.NoError(t, err)
		require.Equal(t, tc.key, back)
	}
}
