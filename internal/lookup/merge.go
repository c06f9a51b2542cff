package lookup

import (
	"fmt"

	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// MergeByTruckIdentity combines an existing record list with a newly
// imported one. A truck appearing in incoming always wins over any prior
// record for that truck; trucks absent from incoming are untouched. This
// models re-scanning the yard sheet for some docks while trusting manual
// edits for the rest.
func MergeByTruckIdentity(existing, incoming []models.PairRecord) []models.PairRecord {
	incomingTrucks := make(map[string]struct{}, len(incoming))
	for _, rec := range incoming {
		if key := Fold(rec.Truck); key != "" {
			incomingTrucks[key] = struct{}{}
		}
	}

	merged := make([]models.PairRecord, 0, len(existing)+len(incoming))
	for _, rec := range existing {
		if _, replaced := incomingTrucks[Fold(rec.Truck)]; !replaced {
			merged = append(merged, rec)
		}
	}
	merged = append(merged, incoming...)

	return FilterBlank(merged)
}

// FilterBlank drops records whose truck and trailer are both empty after
// trimming, and re-assigns 1-based sequence numbers to the survivors.
func FilterBlank(records []models.PairRecord) []models.PairRecord {
	out := make([]models.PairRecord, 0, len(records))
	for _, rec := range records {
		if rec.IsBlank() {
			continue
		}
		rec.Sequence = len(out) + 1
		out = append(out, rec)
	}
	return out
}

// AddOrUpdate applies a manual pairing to a record list and returns the
// updated list with a human-readable message describing what happened.
//
// Match order is truck first, then trailer, then insert. When a single call
// matches one record by truck and a different record by trailer, only the
// truck match is updated; the trailer match keeps its now-stale pairing.
func AddOrUpdate(existing []models.PairRecord, truck, trailer string) ([]models.PairRecord, string, error) {
	truck = NormalizeID(truck)
	trailer = NormalizeID(trailer)

	if truck == "" || trailer == "" {
		return nil, "", models.ErrEmptyPair
	}

	truckKey := Fold(truck)
	trailerKey := Fold(trailer)

	for _, rec := range existing {
		if Fold(rec.Truck) == truckKey && Fold(rec.Trailer) == trailerKey {
			return nil, "", fmt.Errorf("truck %s / trailer %s: %w", truck, trailer, models.ErrPairExists)
		}
	}

	updated := make([]models.PairRecord, len(existing))
	copy(updated, existing)

	for i, rec := range updated {
		if Fold(rec.Truck) == truckKey {
			old := rec.Trailer
			updated[i].Trailer = trailer
			msg := fmt.Sprintf("truck %s re-paired: trailer %s replaced by %s", rec.Truck, old, trailer)
			return updated, msg, nil
		}
	}

	for i, rec := range updated {
		if Fold(rec.Trailer) == trailerKey {
			old := rec.Truck
			updated[i].Truck = truck
			msg := fmt.Sprintf("trailer %s re-paired: truck %s replaced by %s", rec.Trailer, old, truck)
			return updated, msg, nil
		}
	}

	updated = append(updated, models.PairRecord{
		Truck:    truck,
		Trailer:  trailer,
		Sequence: len(updated) + 1,
	})
	msg := fmt.Sprintf("new pairing: truck %s with trailer %s", truck, trailer)
	return updated, msg, nil
}
