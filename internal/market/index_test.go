package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renggafirmandika/de-datastreaming/internal/models"
)

const width = 5 * time.Minute

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 14, hour, minute, 0, 0, time.UTC)
}

func reading(price float64) models.MarketReading {
	return models.MarketReading{
		Region:       "NSW1",
		Price:        price,
		DemandEnergy: 900,
		Timestamp:    "2025-03-14T10:02:00Z",
	}
}

func TestLookupExactBucket(t *testing.T) {
	idx := NewIndex(width)
	idx.Upsert(at(10, 0), "NSW1", reading(55.2))

	got, ok := idx.Lookup(at(10, 0), "NSW1")
	require.True(t, ok)
	assert.Equal(t, 55.2, got.Price)
	assert.Equal(t, 900.0, got.DemandEnergy)
}

func TestLookupFallsBackExactlyOneBucket(t *testing.T) {
	idx := NewIndex(width)
	idx.Upsert(at(10, 5), "NSW1", reading(61.0))

	// 10:10 is empty, 10:05 holds data: fallback applies.
	got, ok := idx.Lookup(at(10, 10), "NSW1")
	require.True(t, ok)
	assert.Equal(t, 61.0, got.Price)

	// 10:15 would need a two-bucket backtrack: no data.
	_, ok = idx.Lookup(at(10, 15), "NSW1")
	assert.False(t, ok)
}

func TestLookupMissesOtherRegion(t *testing.T) {
	idx := NewIndex(width)
	idx.Upsert(at(10, 0), "NSW1", reading(55.2))

	_, ok := idx.Lookup(at(10, 0), "QLD1")
	assert.False(t, ok)
}

func TestUpsertLastReceivedWins(t *testing.T) {
	idx := NewIndex(width)
	idx.Upsert(at(10, 0), "NSW1", reading(55.2))

	// Same (bucket, region): the later arrival replaces the earlier
	// one regardless of event time.
	stale := reading(48.0)
	stale.Timestamp = "2025-03-14T10:00:30Z"
	idx.Upsert(at(10, 0), "NSW1", stale)

	got, ok := idx.Lookup(at(10, 0), "NSW1")
	require.True(t, ok)
	assert.Equal(t, 48.0, got.Price)
}

func TestEvictDropsOldBuckets(t *testing.T) {
	idx := NewIndex(width)
	idx.Upsert(at(9, 0), "NSW1", reading(40))
	idx.Upsert(at(10, 0), "NSW1", reading(50))
	idx.Upsert(at(10, 5), "NSW1", reading(55))
	require.Equal(t, 3, idx.Len())

	evicted := idx.Evict(2)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 2, idx.Len())

	// The recent buckets survive.
	_, ok := idx.Lookup(at(10, 5), "NSW1")
	assert.True(t, ok)
	_, ok = idx.Lookup(at(10, 0), "NSW1")
	assert.True(t, ok)

	// The evicted bucket is gone even via fallback.
	_, ok = idx.Lookup(at(9, 5), "NSW1")
	assert.False(t, ok)
}

func TestEvictKeepsFallbackBucket(t *testing.T) {
	idx := NewIndex(width)
	idx.Upsert(at(10, 0), "NSW1", reading(50))
	idx.Upsert(at(10, 5), "NSW1", reading(55))

	idx.Evict(2)

	// One-back fallback from 10:05 still works after eviction.
	got, ok := idx.Lookup(at(10, 5), "NSW1")
	require.True(t, ok)
	assert.Equal(t, 55.0, got.Price)
	got, ok = idx.Lookup(at(10, 10), "NSW1")
	require.True(t, ok)
	assert.Equal(t, 55.0, got.Price)
}

func TestEvictEmptyIndex(t *testing.T) {
	idx := NewIndex(width)
	assert.Equal(t, 0, idx.Evict(2))
}
