package remote

import (
	"context"
	"sync"

	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// MockClient provides a scriptable Client for testing.
type MockClient struct {
	mu sync.Mutex

	// Scripted state
	ConnStatus  models.ConnectionStatus
	PullResults [][]models.PairRecord

	// Error injection
	ProbeErr error
	PullErr  error
	PushErr  error
	ClearErr error

	// Call tracking
	ProbeCalls int
	PullCalls  int
	PushCalls  int
	ClearCalls int
	Pushed     [][]models.PairRecord

	subscriber func(models.ChangeEvent)
}

// NewMockClient creates a mock in the connected state.
func NewMockClient() *MockClient {
	return &MockClient{ConnStatus: models.StatusConnected}
}

// Probe returns the scripted error and resolves the status accordingly.
func (m *MockClient) Probe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProbeCalls++
	if m.ProbeErr != nil {
		m.ConnStatus = models.StatusDisconnected
		return m.ProbeErr
	}
	m.ConnStatus = models.StatusConnected
	return nil
}

// Status returns the scripted status.
func (m *MockClient) Status() models.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ConnStatus
}

// PullAll pops the next scripted result, repeating the last one.
func (m *MockClient) PullAll(ctx context.Context) ([]models.PairRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PullCalls++
	if m.PullErr != nil {
		return nil, m.PullErr
	}
	if m.ConnStatus != models.StatusConnected {
		return nil, models.ErrRemoteUnavailable
	}

	if len(m.PullResults) == 0 {
		return nil, nil
	}

	result := m.PullResults[0]
	if len(m.PullResults) > 1 {
		m.PullResults = m.PullResults[1:]
	}
	return append([]models.PairRecord(nil), result...), nil
}

// PushAll records the pushed set.
func (m *MockClient) PushAll(ctx context.Context, records []models.PairRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PushCalls++
	if m.PushErr != nil {
		return m.PushErr
	}
	if m.ConnStatus != models.StatusConnected {
		return models.ErrRemoteUnavailable
	}

	m.Pushed = append(m.Pushed, append([]models.PairRecord(nil), records...))
	return nil
}

// Clear tracks the call.
func (m *MockClient) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClearCalls++
	return m.ClearErr
}

// Subscribe captures the callback for FireChange.
func (m *MockClient) Subscribe(ctx context.Context, fn func(models.ChangeEvent)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscriber = fn
	return nil
}

// FireChange delivers a change notification to the subscriber.
func (m *MockClient) FireChange(event models.ChangeEvent) {
	m.mu.Lock()
	fn := m.subscriber
	m.mu.Unlock()

	if fn != nil {
		fn(event)
	}
}

// Close is a no-op.
func (m *MockClient) Close() error {
	return nil
}
