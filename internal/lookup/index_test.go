package lookup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lorandel/Warehouse-Ramps/internal/lookup"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

func pairs(recs ...[2]string) []models.PairRecord {
	out := make([]models.PairRecord, len(recs))
	for i, r := range recs {
		out[i] = models.PairRecord{Truck: r[0], Trailer: r[1], Sequence: i + 1}
	}
	return out
}

func TestBuildIndexRoundTrip(t *testing.T) {
	records := pairs(
		[2]string{"100", "T100"},
		[2]string{"200", "o-154"},
		[2]string{"300", "T300"},
	)

	idx := lookup.BuildIndex(records)

	for _, rec := range records {
		got, ok := idx.TrailerByTruck(rec.Truck)
		require.True(t, ok, "truck %s", rec.Truck)
		assert.Equal(t, rec.Trailer, got)
	}
}

func TestBuildIndexTruckLastWins(t *testing.T) {
	// Duplicate truck keys: later records override earlier ones.
	records := pairs(
		[2]string{"123", "A456"},
		[2]string{"123", "B789"},
	)

	idx := lookup.BuildIndex(records)

	got, ok := idx.TrailerByTruck("123")
	require.True(t, ok)
	assert.Equal(t, "B789", got)
}

func TestBuildIndexTrailerFirstWins(t *testing.T) {
	// A derived stripped-prefix alias must never clobber a real unprefixed
	// record, regardless of the order they appear.
	records := pairs(
		[2]string{"1", "154"},
		[2]string{"2", "o-154"},
	)

	idx := lookup.BuildIndex(records)

	got, ok := idx.TruckByTrailer("154")
	require.True(t, ok)
	assert.Equal(t, "1", got)

	got, ok = idx.TruckByTrailer("o-154")
	require.True(t, ok)
	assert.Equal(t, "2", got)
}

func TestPrefixTransparency(t *testing.T) {
	idx := lookup.BuildIndex(pairs([2]string{"200", "o-154"}))

	for _, input := range []string{"o-154", "154", "O-154", " 154 "} {
		got, ok := idx.TruckByTrailer(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, "200", got)
	}
}

func TestTrailerLookupPrefixRetry(t *testing.T) {
	idx := lookup.BuildIndex(pairs([2]string{"200", "o-154"}))

	// Unprefixed input resolves via the prefix-prepended retry even when
	// only the prefixed key would exist.
	got, ok := idx.TruckByTrailer("154")
	require.True(t, ok)
	assert.Equal(t, "200", got)

	// Prefixed input against an unprefixed record does not retry.
	idx = lookup.BuildIndex(pairs([2]string{"300", "154"}))
	_, ok = idx.TruckByTrailer("o-154")
	assert.False(t, ok)
}

func TestLookupCaseInsensitive(t *testing.T) {
	idx := lookup.BuildIndex(pairs([2]string{"AbC", "tRl-9"}))

	trailer, ok := idx.TrailerByTruck("abc")
	require.True(t, ok)
	assert.Equal(t, "tRl-9", trailer)

	truck, ok := idx.TruckByTrailer("TRL-9")
	require.True(t, ok)
	assert.Equal(t, "AbC", truck)
}

func TestLookupBlankInput(t *testing.T) {
	idx := lookup.BuildIndex(pairs([2]string{"100", "T100"}))

	_, ok := idx.TrailerByTruck("   ")
	assert.False(t, ok)

	_, ok = idx.TruckByTrailer("")
	assert.False(t, ok)
}

func TestBuildIndexSkipsEmptySides(t *testing.T) {
	records := []models.PairRecord{
		{Truck: "100", Trailer: "", Sequence: 1},
		{Truck: "", Trailer: "T200", Sequence: 2},
	}

	idx := lookup.BuildIndex(records)

	got, ok := idx.TrailerByTruck("100")
	require.True(t, ok)
	assert.Equal(t, "", got)

	truck, ok := idx.TruckByTrailer("T200")
	require.True(t, ok)
	assert.Equal(t, "", truck)

	assert.Equal(t, 1, idx.Len())
}
