package dashboard

import (
	"net/url"
	"strconv"
)

// HistoryOptions selects the range of a history query.
//
// When both Start and End are set they are passed through verbatim (the
// server accepts ISO-8601 timestamps or calendar dates; the client never
// parses them). Otherwise Period is used, defaulting to 24h. The client
// does not reject partial or mixed combinations; the server is
// authoritative there.
type HistoryOptions struct {
	Period string
	Start  string
	End    string
}

func (o HistoryOptions) query() url.Values {
	q := url.Values{}
	switch {
	case o.Start != "" && o.End != "":
		q.Set("start", o.Start)
		q.Set("end", o.End)
	case o.Start != "":
		q.Set("start", o.Start)
	case o.End != "":
		q.Set("end", o.End)
	case o.Period != "":
		q.Set("period", o.Period)
	default:
		q.Set("period", Period24h)
	}
	return q
}

// AlertOptions filters an alert listing. Key restricts to one metric.
// Limit is passed through when positive (server maximum 500, default 50)
// and omitted otherwise.
type AlertOptions struct {
	Key   string
	Limit int
}

func (o AlertOptions) query() url.Values {
	q := url.Values{}
	if o.Key != "" {
		q.Set("key", o.Key)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// statPath builds the per-key stats path. The key is escaped so that
// separators, unicode, and reserved characters round-trip as one path
// segment.
func statPath(key string) string {
	return apiPrefix + "/stats/" + url.PathEscape(key)
}
