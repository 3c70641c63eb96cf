// Package market holds the per-window index of regional market
// readings that facility readings are joined against.
package market

import (
	"sync"
	"time"

	"github.com/renggafirmandika/de-datastreaming/internal/models"
)

// Index maps (bucket, region) to the most recently received market
// reading for that window. Overwrite is last-received-wins, not
// last-by-event-time: a late replay of an old reading replaces a newer
// one on purpose, matching upstream behavior.
type Index struct {
	mu      sync.Mutex
	width   time.Duration
	entries map[int64]map[string]models.MarketReading // bucket start (UnixNano) -> region
	latest  int64                                     // newest bucket start seen, UnixNano
}

// NewIndex returns an empty index for buckets of the given width.
func NewIndex(width time.Duration) *Index {
	return &Index{
		width:   width,
		entries: make(map[int64]map[string]models.MarketReading),
	}
}

// Upsert stores a reading under (bucketStart, region), unconditionally
// replacing any prior entry for that pair.
func (i *Index) Upsert(bucketStart time.Time, region string, reading models.MarketReading) {
	key := bucketStart.UnixNano()

	i.mu.Lock()
	defer i.mu.Unlock()

	regions, ok := i.entries[key]
	if !ok {
		regions = make(map[string]models.MarketReading)
		i.entries[key] = regions
	}
	regions[region] = reading

	if key > i.latest || len(i.entries) == 1 {
		i.latest = key
	}
}

// Lookup returns the reading for (bucketStart, region). On a miss it
// falls back exactly one interval backward; beyond that it reports no
// data. No interpolation across non-adjacent buckets.
func (i *Index) Lookup(bucketStart time.Time, region string) (models.MarketReading, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if reading, ok := i.entries[bucketStart.UnixNano()][region]; ok {
		return reading, true
	}
	prev := bucketStart.Add(-i.width).UnixNano()
	if reading, ok := i.entries[prev][region]; ok {
		return reading, true
	}
	return models.MarketReading{}, false
}

// Evict drops every bucket more than keep intervals behind the newest
// bucket in the index and returns the number of buckets removed. The
// index otherwise grows without bound on a long-running process.
func (i *Index) Evict(keep int) int {
	if keep < 1 {
		keep = 1
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.entries) == 0 {
		return 0
	}

	cutoff := i.latest - int64(keep)*int64(i.width)
	evicted := 0
	for key := range i.entries {
		if key < cutoff {
			delete(i.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of (bucket, region) entries held.
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	n := 0
	for _, regions := range i.entries {
		n += len(regions)
	}
	return n
}
