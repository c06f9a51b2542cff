// Package store implements the durable per-device tier holding the pair
// record list, its last-updated timestamp, and the stable device identifier.
package store

import (
	"time"

	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// Store manages local persistence of the lookup data set.
//
// Load returns models.ErrNotFound when nothing usable is stored; an
// unparsable stored value is treated as absent, never as a crash.
type Store interface {
	// Save replaces the stored record list and timestamp.
	Save(records []models.PairRecord, updated time.Time) error

	// Load retrieves the stored record list and timestamp.
	Load() ([]models.PairRecord, time.Time, error)

	// Clear removes the record list and timestamp. The device identifier
	// survives a clear.
	Clear() error

	// DeviceID returns the stable per-device identifier, generating and
	// persisting one on first use.
	DeviceID() (string, error)

	// Close releases resources.
	Close() error
}

// CurrentSchemaVersion for stored-state migrations.
const CurrentSchemaVersion = 1
