// Package metadata performs the one-time load of static facility
// metadata from the energy data warehouse. The result is immutable for
// the process lifetime.
package metadata

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/renggafirmandika/de-datastreaming/internal/fuel"
	"github.com/renggafirmandika/de-datastreaming/internal/models"
)

const facilityQuery = `
	SELECT
		facility_code,
		facility_name,
		network_region,
		lat,
		lng,
		fuel_type
	FROM facility_opennem_mapping
`

// Load reads every facility row from the SQLite warehouse at path and
// returns them keyed by facility code. Raw fuel labels are passed
// through fuel.Normalize. Rows missing a code or coordinates are
// skipped and logged; they cannot be placed or joined.
func Load(path string, logger *slog.Logger) (map[string]models.FacilityMetadata, error) {
	logger = logger.With("component", "metadata", "path", path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open metadata database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("metadata database ping failed: %w", err)
	}

	rows, err := db.Query(facilityQuery)
	if err != nil {
		return nil, fmt.Errorf("facility metadata query failed: %w", err)
	}
	defer rows.Close()

	facilities := make(map[string]models.FacilityMetadata)
	skipped := 0

	for rows.Next() {
		var (
			code, name, region, fuelType sql.NullString
			lat, lng                     sql.NullFloat64
		)
		if err := rows.Scan(&code, &name, &region, &lat, &lng, &fuelType); err != nil {
			return nil, fmt.Errorf("facility metadata scan failed: %w", err)
		}

		if !code.Valid || code.String == "" || !lat.Valid || !lng.Valid {
			skipped++
			logger.Debug("metadata_row_skipped", "facility_code", code.String)
			continue
		}

		facilities[code.String] = models.FacilityMetadata{
			FacilityCode: code.String,
			FacilityName: name.String,
			Region:       region.String,
			Lat:          lat.Float64,
			Lng:          lng.Float64,
			FuelType:     fuel.Normalize(fuelType.String),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("facility metadata iteration failed: %w", err)
	}

	logger.Info("metadata_loaded",
		"facilities", len(facilities),
		"rows_skipped", skipped,
	)

	return facilities, nil
}
