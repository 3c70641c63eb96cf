package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// FacilityMetadata is the static description of a power-grid facility.
// Loaded once at startup and read-only for the process lifetime.
type FacilityMetadata struct {
	FacilityCode string  `json:"facility_code"`
	FacilityName string  `json:"facility_name"`
	Region       string  `json:"region"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	FuelType     string  `json:"fuel_type"` // canonical, see internal/fuel
}

// FacilityReading is one decoded telemetry sample for a facility.
// Transient: it is consumed by the integration engine and not retained
// once merged into an IntegratedRecord.
type FacilityReading struct {
	FacilityCode string  `json:"facility_code"`
	Power        float64 `json:"power"`
	Emissions    float64 `json:"emissions"`
	Timestamp    string  `json:"timestamp"` // source timestamp, as received
}

// MarketReading is one decoded price/demand sample for a network region.
type MarketReading struct {
	Region       string  `json:"region"`
	Price        float64 `json:"price"`
	DemandEnergy float64 `json:"demand_energy"`
	Timestamp    string  `json:"timestamp"` // source timestamp, as received
}

// IntegratedRecord is the merged per-facility view: static metadata,
// the latest facility reading, and the best-matching regional market
// reading. One record per facility code; wholly replaced on every new
// facility reading for that code.
type IntegratedRecord struct {
	FacilityCode string  `json:"facility_code"`
	FacilityName string  `json:"facility_name"`
	Region       string  `json:"region"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	FuelType     string  `json:"fuel_type"`

	Power      float64   `json:"power"`
	Emissions  float64   `json:"emissions"`
	Timestamp  string    `json:"timestamp"`
	TimeBucket time.Time `json:"time_bucket"`

	// Price and DemandEnergy are absent when HasMarketData is false.
	Price           *float64 `json:"price,omitempty"`
	DemandEnergy    *float64 `json:"demand_energy,omitempty"`
	MarketTimestamp string   `json:"market_timestamp,omitempty"`
	HasMarketData   bool     `json:"has_market_data"`
}

// ErrorResponse is the JSON error body returned by the HTTP API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// facilityMessage mirrors the inbound facility wire format. Pointer
// fields distinguish absent/null from zero.
type facilityMessage struct {
	FacilityCode *string  `json:"facility_code"`
	Power        *float64 `json:"power"`
	Emissions    *float64 `json:"emissions"`
	Timestamp    *string  `json:"timestamp"`
}

// marketMessage mirrors the inbound market wire format.
type marketMessage struct {
	Region       *string  `json:"region"`
	Price        *float64 `json:"price"`
	DemandEnergy *float64 `json:"demand_energy"`
	Timestamp    *string  `json:"timestamp"`
}

// DecodeFacility decodes and validates an inbound facility message.
// A missing or null required field is a decode error; the caller is
// expected to log and skip the message.
func DecodeFacility(payload []byte) (FacilityReading, error) {
	var msg facilityMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return FacilityReading{}, fmt.Errorf("facility message unmarshal failed: %w", err)
	}

	if msg.FacilityCode == nil || *msg.FacilityCode == "" {
		return FacilityReading{}, fmt.Errorf("facility message missing facility_code")
	}
	if msg.Power == nil {
		return FacilityReading{}, fmt.Errorf("facility message missing power")
	}
	if msg.Emissions == nil {
		return FacilityReading{}, fmt.Errorf("facility message missing emissions")
	}
	if msg.Timestamp == nil || *msg.Timestamp == "" {
		return FacilityReading{}, fmt.Errorf("facility message missing timestamp")
	}

	return FacilityReading{
		FacilityCode: *msg.FacilityCode,
		Power:        *msg.Power,
		Emissions:    *msg.Emissions,
		Timestamp:    *msg.Timestamp,
	}, nil
}

// DecodeMarket decodes and validates an inbound market message.
func DecodeMarket(payload []byte) (MarketReading, error) {
	var msg marketMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return MarketReading{}, fmt.Errorf("market message unmarshal failed: %w", err)
	}

	if msg.Region == nil || *msg.Region == "" {
		return MarketReading{}, fmt.Errorf("market message missing region")
	}
	if msg.Price == nil {
		return MarketReading{}, fmt.Errorf("market message missing price")
	}
	if msg.DemandEnergy == nil {
		return MarketReading{}, fmt.Errorf("market message missing demand_energy")
	}
	if msg.Timestamp == nil || *msg.Timestamp == "" {
		return MarketReading{}, fmt.Errorf("market message missing timestamp")
	}

	return MarketReading{
		Region:       *msg.Region,
		Price:        *msg.Price,
		DemandEnergy: *msg.DemandEnergy,
		Timestamp:    *msg.Timestamp,
	}, nil
}
