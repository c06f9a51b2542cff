package store_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
	"github.com/Lorandel/Warehouse-Ramps/internal/store"
)

func testLogger() *events.Logger {
	var buf bytes.Buffer
	return events.NewTestLogger(events.DebugLevel, "json", &buf)
}

func TestJSONStore(t *testing.T) {
	s, err := store.NewJSONStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	defer s.Close()

	testStoreOperations(t, s)
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lookup.db")
	s, err := store.NewSQLiteStore(dbPath, testLogger())
	require.NoError(t, err)
	defer s.Close()

	testStoreOperations(t, s)
}

func testStoreOperations(t *testing.T, s store.Store) {
	records := []models.PairRecord{
		{Truck: "123", Trailer: "A456", Sequence: 1},
		{Truck: "200", Trailer: "o-154", Sequence: 2},
	}
	updated := time.Now().UTC().Truncate(time.Second)

	t.Run("load absent", func(t *testing.T) {
		_, _, err := s.Load()
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("save and load round-trip", func(t *testing.T) {
		require.NoError(t, s.Save(records, updated))

		loaded, ts, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, records, loaded)
		assert.Equal(t, updated.Unix(), ts.Unix())
	})

	t.Run("save replaces wholesale", func(t *testing.T) {
		replacement := []models.PairRecord{
			{Truck: "999", Trailer: "Z1", Sequence: 1},
		}
		require.NoError(t, s.Save(replacement, updated.Add(time.Minute)))

		loaded, _, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, replacement, loaded)
	})

	t.Run("device ID is stable", func(t *testing.T) {
		first, err := s.DeviceID()
		require.NoError(t, err)
		require.NotEmpty(t, first)

		second, err := s.DeviceID()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("clear keeps device ID", func(t *testing.T) {
		id, err := s.DeviceID()
		require.NoError(t, err)

		require.NoError(t, s.Clear())

		_, _, err = s.Load()
		assert.ErrorIs(t, err, models.ErrNotFound)

		after, err := s.DeviceID()
		require.NoError(t, err)
		assert.Equal(t, id, after)
	})
}

func TestJSONStoreCorruptionFailsOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewJSONStore(dir, testLogger())
	require.NoError(t, err)
	defer s.Close()

	path := filepath.Join(dir, "lookup_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, _, err = s.Load()
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestJSONStoreBackupRecovery(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewJSONStore(dir, testLogger())
	require.NoError(t, err)
	defer s.Close()

	records := []models.PairRecord{{Truck: "80", Trailer: "T80", Sequence: 1}}
	require.NoError(t, s.Save(records, time.Now()))
	require.NoError(t, s.Save(records, time.Now())) // creates the backup

	path := filepath.Join(dir, "lookup_data.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))

	loaded, _, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestJSONStoreChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewJSONStore(dir, testLogger())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save([]models.PairRecord{{Truck: "1", Trailer: "X", Sequence: 1}}, time.Now()))

	// Tamper with a record without updating the checksum.
	path := filepath.Join(dir, "lookup_data.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var state map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &state))
	state["records"] = json.RawMessage(`[{"truck":"1","trailer":"TAMPERED","sequence":1}]`)
	tampered, err := json.Marshal(state)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, tampered, 0600))
	_ = os.Remove(path + ".backup")

	_, _, err = s.Load()
	assert.ErrorIs(t, err, models.ErrNotFound)
}
