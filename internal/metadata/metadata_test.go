package metadata

import (
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func seedWarehouse(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "energy_dw.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE facility_opennem_mapping (
			facility_code TEXT,
			facility_name TEXT,
			network_region TEXT,
			lat REAL,
			lng REAL,
			fuel_type TEXT
		)
	`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO facility_opennem_mapping VALUES
			('BAYSW', 'Bayswater', 'NSW1', -32.4, 150.9, 'black coal'),
			('HPRG1', 'Hornsdale', 'SA1', -33.1, 138.5, 'Wind'),
			('MYST1', 'Mystery Plant', 'VIC1', -37.8, 144.9, 'cold fusion'),
			('NOLOC', 'No Location', 'QLD1', NULL, NULL, 'gas'),
			(NULL, 'No Code', 'TAS1', -42.0, 146.6, 'hydro')
	`)
	require.NoError(t, err)

	return path
}

func TestLoad(t *testing.T) {
	facilities, err := Load(seedWarehouse(t), slog.Default())
	require.NoError(t, err)

	// Rows without a code or coordinates are skipped.
	require.Len(t, facilities, 3)

	baysw := facilities["BAYSW"]
	assert.Equal(t, "Bayswater", baysw.FacilityName)
	assert.Equal(t, "NSW1", baysw.Region)
	assert.Equal(t, -32.4, baysw.Lat)
	assert.Equal(t, 150.9, baysw.Lng)
	assert.Equal(t, "Black Coal", baysw.FuelType)

	assert.Equal(t, "Wind", facilities["HPRG1"].FuelType)

	// Unrecognized fuel labels fall into the Other category.
	assert.Equal(t, "Other", facilities["MYST1"].FuelType)
}

func TestLoadMissingDatabase(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing", "nope.db"), slog.Default())
	assert.Error(t, err)
}
