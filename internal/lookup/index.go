package lookup

import (
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// Index holds the two derived lookup maps. It is a pure cache over a record
// list: safe to discard and rebuild at any time, never the source of truth.
type Index struct {
	byTruck   map[string]string
	byTrailer map[string]string
}

// BuildIndex derives the lookup maps from a record list in a single pass.
//
// The truck map is last-wins: re-pairing a truck overwrites its old trailer
// in place, so the newest record for a truck must win. The trailer map is
// first-wins, because each prefixed trailer also contributes a derived
// stripped-prefix alias, and a manufactured alias appearing later must never
// clobber a real unprefixed record that happens to share the stripped value.
func BuildIndex(records []models.PairRecord) *Index {
	idx := &Index{
		byTruck:   make(map[string]string, len(records)),
		byTrailer: make(map[string]string, len(records)),
	}

	for _, rec := range records {
		truck := NormalizeID(rec.Truck)
		trailer := NormalizeID(rec.Trailer)

		if truck != "" {
			idx.byTruck[Fold(truck)] = trailer
		}

		if trailer != "" {
			key := Fold(trailer)
			if _, seen := idx.byTrailer[key]; !seen {
				idx.byTrailer[key] = truck
			}

			if stripped, ok := StripTrailerPrefix(trailer); ok && stripped != "" {
				alias := Fold(stripped)
				if _, seen := idx.byTrailer[alias]; !seen {
					idx.byTrailer[alias] = truck
				}
			}
		}
	}

	return idx
}

// Len reports the number of distinct truck keys.
func (i *Index) Len() int {
	return len(i.byTruck)
}

// TrailerByTruck resolves a truck identifier to its paired trailer.
func (i *Index) TrailerByTruck(input string) (string, bool) {
	key := Fold(input)
	if key == "" {
		return "", false
	}

	trailer, ok := i.byTruck[key]
	return trailer, ok
}

// TruckByTrailer resolves a trailer identifier to its paired truck. When the
// direct lookup misses and the input does not already carry the "o-" prefix,
// the lookup is retried with the prefix prepended.
func (i *Index) TruckByTrailer(input string) (string, bool) {
	key := Fold(input)
	if key == "" {
		return "", false
	}

	if truck, ok := i.byTrailer[key]; ok {
		return truck, true
	}

	if _, prefixed := StripTrailerPrefix(input); !prefixed {
		if truck, ok := i.byTrailer[Fold(TrailerPrefix+key)]; ok {
			return truck, true
		}
	}

	return "", false
}
