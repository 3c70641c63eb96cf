// Package api exposes the integrated facility state to the
// presentation layer over HTTP. Every endpoint reads a point-in-time
// snapshot; nothing here touches the engine's structures directly.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/renggafirmandika/de-datastreaming/internal/bucket"
	"github.com/renggafirmandika/de-datastreaming/internal/models"
)

// SnapshotSource provides point-in-time copies of the facility state.
type SnapshotSource interface {
	Snapshot() map[string]models.IntegratedRecord
}

// SnapshotResponse is the body of GET /snapshot.
type SnapshotResponse struct {
	Count      int                       `json:"count"`
	Facilities []models.IntegratedRecord `json:"facilities"`
}

// RegionSummary is one region's latest market view, derived from the
// integrated records the same way the dashboard derives it: the
// freshest facility reading per region carries that region's price
// and demand.
type RegionSummary struct {
	Region          string  `json:"region"`
	Price           float64 `json:"price"`
	DemandEnergy    float64 `json:"demand_energy"`
	MarketTimestamp string  `json:"market_timestamp,omitempty"`
	Facilities      int     `json:"facilities"`
}

// SnapshotHandler serves the full integrated view with optional
// region/fuel filtering.
type SnapshotHandler struct {
	source SnapshotSource
	logger *slog.Logger
}

// NewSnapshotHandler creates a snapshot handler.
func NewSnapshotHandler(source SnapshotSource, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		source: source,
		logger: logger.With("handler", "snapshot"),
	}
}

// List handles GET /snapshot. Repeated region= and fuel= query
// parameters narrow the result; with none given, everything is
// returned. Facilities are sorted by code for stable output.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	regionFilter := toSet(r.URL.Query()["region"])
	fuelFilter := toSet(r.URL.Query()["fuel"])

	snap := h.source.Snapshot()

	facilities := make([]models.IntegratedRecord, 0, len(snap))
	for _, record := range snap {
		if len(regionFilter) > 0 && !regionFilter[record.Region] {
			continue
		}
		if len(fuelFilter) > 0 && !fuelFilter[record.FuelType] {
			continue
		}
		facilities = append(facilities, record)
	}
	sort.Slice(facilities, func(i, j int) bool {
		return facilities[i].FacilityCode < facilities[j].FacilityCode
	})

	writeJSON(w, http.StatusOK, SnapshotResponse{
		Count:      len(facilities),
		Facilities: facilities,
	})

	h.logger.Debug("snapshot_served",
		"count", len(facilities),
		"total", len(snap),
	)
}

// Get handles GET /snapshot/{facilityCode}. A facility without an
// integrated record yet is a 404, not an error.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	facilityCode := chi.URLParam(r, "facilityCode")
	if facilityCode == "" {
		writeError(w, http.StatusBadRequest, "missing_parameter", "facilityCode path parameter is required")
		return
	}

	record, ok := h.source.Snapshot()[facilityCode]
	if !ok {
		h.logger.Debug("facility_not_tracked", "facility_code", facilityCode)
		writeError(w, http.StatusNotFound, "facility_not_tracked", "No integrated record for this facility")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Regions handles GET /regions: the latest joined market reading per
// region, where "latest" means the region's facility record with the
// freshest source timestamp.
func (h *SnapshotHandler) Regions(w http.ResponseWriter, r *http.Request) {
	type regionLatest struct {
		summary RegionSummary
		seen    int64 // UnixNano of the freshest source timestamp
	}

	latest := make(map[string]*regionLatest)
	for _, record := range h.source.Snapshot() {
		if record.Region == "" {
			continue
		}

		entry, ok := latest[record.Region]
		if !ok {
			entry = &regionLatest{summary: RegionSummary{Region: record.Region}}
			latest[record.Region] = entry
		}
		entry.summary.Facilities++

		if !record.HasMarketData {
			continue
		}

		ts, _ := bucket.ParseTimestamp(record.Timestamp)
		if entry.summary.MarketTimestamp != "" && ts.UnixNano() <= entry.seen {
			continue
		}
		entry.seen = ts.UnixNano()
		entry.summary.Price = *record.Price
		entry.summary.DemandEnergy = *record.DemandEnergy
		entry.summary.MarketTimestamp = record.MarketTimestamp
	}

	summaries := make([]RegionSummary, 0, len(latest))
	for _, entry := range latest {
		summaries = append(summaries, entry.summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Region < summaries[j].Region
	})

	writeJSON(w, http.StatusOK, summaries)
}

// HealthCheckHandler returns a simple health check handler.
func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	writeJSON(w, statusCode, models.ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}
