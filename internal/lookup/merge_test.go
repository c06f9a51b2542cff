package lookup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lorandel/Warehouse-Ramps/internal/lookup"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

func TestMergeByTruckIdentity(t *testing.T) {
	t.Run("incoming truck replaces existing", func(t *testing.T) {
		existing := pairs([2]string{"123", "A456"})
		incoming := pairs([2]string{"123", "B789"})

		got := lookup.MergeByTruckIdentity(existing, incoming)

		require.Len(t, got, 1)
		assert.Equal(t, models.PairRecord{Truck: "123", Trailer: "B789", Sequence: 1}, got[0])
	})

	t.Run("unrelated trucks preserved", func(t *testing.T) {
		existing := pairs([2]string{"1", "X"}, [2]string{"2", "Y"})
		incoming := pairs([2]string{"2", "Z"})

		got := lookup.MergeByTruckIdentity(existing, incoming)

		require.Len(t, got, 2)
		byTruck := map[string]string{}
		for _, rec := range got {
			byTruck[rec.Truck] = rec.Trailer
		}
		assert.Equal(t, "X", byTruck["1"])
		assert.Equal(t, "Z", byTruck["2"])
	})

	t.Run("empty incoming is idempotent", func(t *testing.T) {
		existing := pairs([2]string{"1", "X"}, [2]string{"2", "Y"})

		got := lookup.MergeByTruckIdentity(existing, nil)

		require.Len(t, got, 2)
		for i, rec := range got {
			assert.Equal(t, existing[i].Truck, rec.Truck)
			assert.Equal(t, existing[i].Trailer, rec.Trailer)
			assert.Equal(t, i+1, rec.Sequence)
		}
	})

	t.Run("truck identity is case-insensitive", func(t *testing.T) {
		existing := pairs([2]string{"abc", "OLD"})
		incoming := pairs([2]string{"ABC", "NEW"})

		got := lookup.MergeByTruckIdentity(existing, incoming)

		require.Len(t, got, 1)
		assert.Equal(t, "NEW", got[0].Trailer)
	})

	t.Run("blank pairs dropped", func(t *testing.T) {
		existing := []models.PairRecord{
			{Truck: "1", Trailer: "X", Sequence: 1},
			{Truck: "  ", Trailer: "", Sequence: 2},
		}
		incoming := []models.PairRecord{
			{Truck: "", Trailer: "  ", Sequence: 1},
			{Truck: "2", Trailer: "Y", Sequence: 2},
		}

		got := lookup.MergeByTruckIdentity(existing, incoming)

		require.Len(t, got, 2)
		for _, rec := range got {
			assert.False(t, rec.IsBlank())
		}
	})

	t.Run("sequences renumbered", func(t *testing.T) {
		existing := pairs([2]string{"1", "X"}, [2]string{"2", "Y"}, [2]string{"3", "Z"})
		incoming := pairs([2]string{"2", "Y2"})

		got := lookup.MergeByTruckIdentity(existing, incoming)

		require.Len(t, got, 3)
		for i, rec := range got {
			assert.Equal(t, i+1, rec.Sequence)
		}
	})

	t.Run("records with empty truck survive any incoming", func(t *testing.T) {
		existing := []models.PairRecord{{Truck: "", Trailer: "orphan", Sequence: 1}}
		incoming := pairs([2]string{"9", "T9"})

		got := lookup.MergeByTruckIdentity(existing, incoming)

		require.Len(t, got, 2)
		assert.Equal(t, "orphan", got[0].Trailer)
	})
}

func TestAddOrUpdate(t *testing.T) {
	t.Run("rejects empty identifiers", func(t *testing.T) {
		_, _, err := lookup.AddOrUpdate(nil, "  ", "T80")
		assert.ErrorIs(t, err, models.ErrEmptyPair)

		_, _, err = lookup.AddOrUpdate(nil, "80", "")
		assert.ErrorIs(t, err, models.ErrEmptyPair)
	})

	t.Run("new pairing then conflict then update", func(t *testing.T) {
		updated, msg, err := lookup.AddOrUpdate(nil, "80", "T80")
		require.NoError(t, err)
		assert.Contains(t, msg, "new pairing")
		require.Len(t, updated, 1)
		assert.Equal(t, 1, updated[0].Sequence)

		_, _, err = lookup.AddOrUpdate(updated, "80", "T80")
		assert.ErrorIs(t, err, models.ErrPairExists)

		updated, msg, err = lookup.AddOrUpdate(updated, "80", "T99")
		require.NoError(t, err)
		assert.Contains(t, msg, "re-paired")
		require.Len(t, updated, 1)

		idx := lookup.BuildIndex(updated)
		trailer, ok := idx.TrailerByTruck("80")
		require.True(t, ok)
		assert.Equal(t, "T99", trailer)
	})

	t.Run("truck match wins and keeps one record per truck", func(t *testing.T) {
		records := pairs([2]string{"80", "T80"}, [2]string{"81", "T81"})

		updated, _, err := lookup.AddOrUpdate(records, "80", "T99")
		require.NoError(t, err)

		count := 0
		for _, rec := range updated {
			if lookup.Fold(rec.Truck) == lookup.Fold("80") {
				count++
				assert.Equal(t, "T99", rec.Trailer)
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("trailer match reassigns truck", func(t *testing.T) {
		records := pairs([2]string{"80", "T80"})

		updated, msg, err := lookup.AddOrUpdate(records, "90", "T80")
		require.NoError(t, err)
		assert.Contains(t, msg, "re-paired")
		require.Len(t, updated, 1)
		assert.Equal(t, "90", updated[0].Truck)
		assert.Equal(t, "T80", updated[0].Trailer)
	})

	t.Run("conflict detection is case-insensitive", func(t *testing.T) {
		records := pairs([2]string{"80", "t80"})

		_, _, err := lookup.AddOrUpdate(records, "80", "T80")
		assert.ErrorIs(t, err, models.ErrPairExists)
	})

	t.Run("input slice not mutated", func(t *testing.T) {
		records := pairs([2]string{"80", "T80"})

		_, _, err := lookup.AddOrUpdate(records, "80", "T99")
		require.NoError(t, err)
		assert.Equal(t, "T80", records[0].Trailer)
	})

	// Truck and trailer each matching a different record updates only the
	// truck match; the trailer match keeps its stale pairing. Deliberate,
	// pinned behavior.
	t.Run("split match updates truck record only", func(t *testing.T) {
		records := pairs([2]string{"A", "T1"}, [2]string{"B", "T2"})

		updated, _, err := lookup.AddOrUpdate(records, "A", "T2")
		require.NoError(t, err)
		require.Len(t, updated, 2)
		assert.Equal(t, "T2", updated[0].Trailer)
		assert.Equal(t, "B", updated[1].Truck)
		assert.Equal(t, "T2", updated[1].Trailer)
	})
}

func TestFilterBlank(t *testing.T) {
	records := []models.PairRecord{
		{Truck: "1", Trailer: "X", Sequence: 7},
		{Truck: " ", Trailer: " ", Sequence: 8},
		{Truck: "", Trailer: "Y", Sequence: 9},
	}

	got := lookup.FilterBlank(records)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Sequence)
	assert.Equal(t, 2, got[1].Sequence)
}
