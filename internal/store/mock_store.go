package store

import (
	"sync"
	"time"

	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// MockStore provides an in-memory Store for testing.
type MockStore struct {
	mu sync.Mutex

	records []models.PairRecord
	updated time.Time
	present bool
	device  string

	// Error injection
	SaveErr  error
	LoadErr  error
	ClearErr error

	// Call tracking
	SaveCalls  int
	LoadCalls  int
	ClearCalls int
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{device: "mock-device"}
}

// Save records the given list in memory.
func (m *MockStore) Save(records []models.PairRecord, updated time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}

	m.records = append([]models.PairRecord(nil), records...)
	m.updated = updated
	m.present = true
	return nil
}

// Load returns the in-memory list.
func (m *MockStore) Load() ([]models.PairRecord, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, time.Time{}, m.LoadErr
	}
	if !m.present {
		return nil, time.Time{}, models.ErrNotFound
	}

	return append([]models.PairRecord(nil), m.records...), m.updated, nil
}

// Clear drops the in-memory list.
func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}

	m.records = nil
	m.updated = time.Time{}
	m.present = false
	return nil
}

// DeviceID returns a fixed identifier.
func (m *MockStore) DeviceID() (string, error) {
	return m.device, nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// Stored returns a copy of the saved records for assertions.
func (m *MockStore) Stored() []models.PairRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PairRecord(nil), m.records...)
}
