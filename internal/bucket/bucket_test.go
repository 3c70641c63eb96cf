package bucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorFiveMinute(t *testing.T) {
	b := New(5 * time.Minute)

	ts := time.Date(2025, 3, 14, 10, 2, 37, 123456789, time.UTC)
	got := b.Floor(ts)

	assert.Equal(t, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), got)
}

func TestFloorExactBoundary(t *testing.T) {
	b := New(5 * time.Minute)

	ts := time.Date(2025, 3, 14, 10, 5, 0, 0, time.UTC)
	assert.Equal(t, ts, b.Floor(ts))
}

func TestFloorMonotonicAndBounded(t *testing.T) {
	b := New(5 * time.Minute)

	base := time.Date(2025, 3, 14, 9, 57, 0, 0, time.UTC)
	prev := b.Floor(base)
	for i := 0; i < 600; i++ {
		ts := base.Add(time.Duration(i) * 13 * time.Second)
		got := b.Floor(ts)

		assert.False(t, got.After(ts), "bucket(t) must not exceed t")
		assert.False(t, got.Before(prev), "bucket must be non-decreasing")
		prev = got
	}
}

func TestParseTimestampFormats(t *testing.T) {
	for _, raw := range []string{
		"2025-03-14T10:02:00Z",
		"2025-03-14T10:02:00+10:00",
		"2025-03-14T10:02:00",
		"2025-03-14 10:02:00",
		"2025-03-14T10:02:00.250Z",
	} {
		ts, ok := ParseTimestamp(raw)
		require.True(t, ok, "should parse %q", raw)
		assert.Equal(t, 2, ts.Minute())
	}
}

func TestParseTimestampSentinel(t *testing.T) {
	for _, raw := range []string{"", "not-a-time", "14/03/2025"} {
		ts, ok := ParseTimestamp(raw)
		assert.False(t, ok)
		assert.Equal(t, SentinelMin, ts)
	}
}

func TestFloorStringUnparsableMapsToEarliestBucket(t *testing.T) {
	b := New(5 * time.Minute)

	got, ok := b.FloorString("garbage")
	assert.False(t, ok)

	// The sentinel bucket compares before any real bucket.
	real, _ := b.FloorString("2025-03-14T10:02:00Z")
	assert.True(t, got.Before(real))
}

func TestNewClampsWidth(t *testing.T) {
	b := New(0)
	assert.Equal(t, time.Minute, b.Width())
}
