// Package engine implements the timer-driven drain/join cycle that
// correlates facility telemetry with regional market readings.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/renggafirmandika/de-datastreaming/internal/bucket"
	"github.com/renggafirmandika/de-datastreaming/internal/ingest"
	"github.com/renggafirmandika/de-datastreaming/internal/instrumentation"
	"github.com/renggafirmandika/de-datastreaming/internal/market"
	"github.com/renggafirmandika/de-datastreaming/internal/models"
	"github.com/renggafirmandika/de-datastreaming/internal/store"
)

// Engine owns all reads from the ingestion queues and all mutations of
// the market index and facility state store. One cycle runs at a time;
// shutdown lands between cycles, never mid-cycle.
type Engine struct {
	facilityQueue *ingest.Queue
	marketQueue   *ingest.Queue
	index         *market.Index
	store         *store.Store
	facilities    map[string]models.FacilityMetadata
	bucketizer    bucket.Bucketizer
	retention     int

	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// New wires an engine over its owned collaborators. facilities is the
// immutable metadata mapping loaded at startup; retention is how many
// bucket intervals the market index keeps behind its newest bucket.
func New(
	facilityQueue, marketQueue *ingest.Queue,
	index *market.Index,
	st *store.Store,
	facilities map[string]models.FacilityMetadata,
	bucketizer bucket.Bucketizer,
	retention int,
	logger *slog.Logger,
	metrics *instrumentation.Metrics,
) *Engine {
	return &Engine{
		facilityQueue: facilityQueue,
		marketQueue:   marketQueue,
		index:         index,
		store:         st,
		facilities:    facilities,
		bucketizer:    bucketizer,
		retention:     retention,
		logger:        logger.With("component", "engine"),
		metrics:       metrics,
	}
}

// Run executes drain/join cycles on a fixed cadence until the context
// is cancelled. The stop signal is checked between cycles only.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	e.logger.Info("engine_starting", "drain_interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine_stopping")
			return
		case <-ticker.C:
			e.RunCycle()
		}
	}
}

// RunCycle executes one drain/join cycle: the market queue is drained
// fully into the index first, then the facility queue is drained and
// joined, so readings of both kinds arriving in the same cycle still
// correlate. Every per-message failure is logged and skipped; nothing
// here is fatal.
func (e *Engine) RunCycle() (facilityProcessed, marketProcessed int) {
	start := time.Now()

	marketProcessed = e.drainMarket()
	facilityProcessed = e.drainFacilities()

	evicted := e.index.Evict(e.retention)

	if e.metrics != nil {
		e.metrics.RecordCycle(float64(time.Since(start).Milliseconds()))
		e.metrics.RecordSizes(e.index.Len(), e.store.Len())
	}

	if facilityProcessed > 0 || marketProcessed > 0 || evicted > 0 {
		e.logger.Debug("engine_cycle_complete",
			"facility_processed", facilityProcessed,
			"market_processed", marketProcessed,
			"buckets_evicted", evicted,
			"facilities_tracked", e.store.Len(),
		)
	}

	return facilityProcessed, marketProcessed
}

// drainMarket empties the market queue into the index.
func (e *Engine) drainMarket() int {
	processed := 0
	for _, payload := range e.marketQueue.Drain() {
		reading, err := models.DecodeMarket(payload)
		if err != nil {
			e.logger.Warn("market_message_dropped", "error", err)
			if e.metrics != nil {
				e.metrics.RecordDecodeFailure("market")
			}
			continue
		}

		bucketStart, ok := e.bucketizer.FloorString(reading.Timestamp)
		if !ok {
			e.logger.Debug("market_timestamp_unparsable",
				"region", reading.Region,
				"timestamp", reading.Timestamp,
			)
		}

		e.index.Upsert(bucketStart, reading.Region, reading)
		processed++
		if e.metrics != nil {
			e.metrics.RecordProcessed("market")
		}
	}
	return processed
}

// drainFacilities empties the facility queue, joining each reading
// against the market index and replacing its integrated record.
func (e *Engine) drainFacilities() int {
	processed := 0
	for _, payload := range e.facilityQueue.Drain() {
		reading, err := models.DecodeFacility(payload)
		if err != nil {
			e.logger.Warn("facility_message_dropped", "error", err)
			if e.metrics != nil {
				e.metrics.RecordDecodeFailure("facility")
			}
			continue
		}

		// Unknown codes are filtered, not errors.
		meta, known := e.facilities[reading.FacilityCode]
		if !known {
			if e.metrics != nil {
				e.metrics.RecordUnknownFacility()
			}
			continue
		}

		bucketStart, ok := e.bucketizer.FloorString(reading.Timestamp)
		if !ok {
			e.logger.Debug("facility_timestamp_unparsable",
				"facility_code", reading.FacilityCode,
				"timestamp", reading.Timestamp,
			)
		}

		record := e.integrate(reading, meta, bucketStart)
		e.store.Upsert(reading.FacilityCode, record)

		processed++
		if e.metrics != nil {
			e.metrics.RecordProcessed("facility")
		}
	}
	return processed
}

// integrate assembles the merged record for one facility reading.
func (e *Engine) integrate(
	reading models.FacilityReading,
	meta models.FacilityMetadata,
	bucketStart time.Time,
) models.IntegratedRecord {
	record := models.IntegratedRecord{
		FacilityCode: meta.FacilityCode,
		FacilityName: meta.FacilityName,
		Region:       meta.Region,
		Lat:          meta.Lat,
		Lng:          meta.Lng,
		FuelType:     meta.FuelType,
		Power:        reading.Power,
		Emissions:    reading.Emissions,
		Timestamp:    reading.Timestamp,
		TimeBucket:   bucketStart,
	}

	marketReading, found := e.index.Lookup(bucketStart, meta.Region)
	if found {
		price := marketReading.Price
		demand := marketReading.DemandEnergy
		record.Price = &price
		record.DemandEnergy = &demand
		record.MarketTimestamp = marketReading.Timestamp
		record.HasMarketData = true
	}

	if e.metrics != nil {
		if found {
			e.metrics.RecordJoin("hit")
		} else {
			e.metrics.RecordJoin("miss")
		}
	}

	return record
}
