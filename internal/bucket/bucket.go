// Package bucket aligns source timestamps to fixed-width time windows
// so facility and market readings taken around the same time can be
// correlated.
package bucket

import "time"

// timestampLayouts are tried in order when parsing inbound timestamps.
// Upstream publishers emit either RFC 3339 or a bare ISO form with no
// zone designator.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// SentinelMin is substituted for unparsable timestamps. It sorts before
// every real timestamp, so ordering comparisons stay total.
var SentinelMin = time.Time{}

// ParseTimestamp parses an inbound timestamp string. On failure it
// returns SentinelMin and false rather than an error, so callers are
// never aborted by a malformed clock value.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return SentinelMin, false
}

// Bucketizer floors timestamps to a fixed interval boundary.
type Bucketizer struct {
	width time.Duration
}

// New returns a Bucketizer with the given window width. Widths below
// one minute are clamped to one minute.
func New(width time.Duration) Bucketizer {
	if width < time.Minute {
		width = time.Minute
	}
	return Bucketizer{width: width}
}

// Width returns the configured window width.
func (b Bucketizer) Width() time.Duration {
	return b.width
}

// Floor maps a timestamp to the start of the interval containing it,
// zeroing sub-interval components. Floor is monotonic non-decreasing
// and Floor(t) <= t.
func (b Bucketizer) Floor(t time.Time) time.Time {
	return t.Truncate(b.width)
}

// FloorString parses a raw timestamp and floors it. Unparsable input
// maps to the floor of SentinelMin, the earliest possible bucket.
func (b Bucketizer) FloorString(s string) (time.Time, bool) {
	t, ok := ParseTimestamp(s)
	return b.Floor(t), ok
}
