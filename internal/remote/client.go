// Package remote implements the optional multi-device tier: a client for
// the shared lookup_data table store with push, pull, and change
// notification over websocket. Every remote failure is soft; the local tier
// stays authoritative.
package remote

import (
	"context"

	"github.com/Lorandel/Warehouse-Ramps/internal/config"
	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// Client is the capability-checked interface to the remote table store.
type Client interface {
	// Probe runs the bounded initial health check and resolves the
	// connection status to connected or disconnected.
	Probe(ctx context.Context) error

	// Status returns the current connection status. Once disconnected the
	// client stays disconnected until the process restarts.
	Status() models.ConnectionStatus

	// PushAll replaces the remote row set with records: delete-all, then
	// batch inserts. Non-atomic; a mid-batch failure leaves earlier batches
	// in place.
	PushAll(ctx context.Context, records []models.PairRecord) error

	// PullAll fetches the full remote row set ordered by row number. It
	// returns an error (never panics, never blocks past the pull timeout)
	// so callers can fall back to the local tier.
	PullAll(ctx context.Context) ([]models.PairRecord, error)

	// Clear deletes all remote rows.
	Clear(ctx context.Context) error

	// Subscribe registers for change notifications from any device. The
	// callback receives a change marker, not row data; consumers must
	// re-pull. Any previous subscription is torn down first.
	Subscribe(ctx context.Context, fn func(models.ChangeEvent)) error

	// Close tears down the subscription and releases resources.
	Close() error
}

// NewClient selects the HTTP client or the null client based on whether
// remote credentials are configured.
func NewClient(cfg *config.RemoteConfig, logger *events.Logger) Client {
	if !cfg.Enabled() {
		return NewNullClient(logger)
	}
	return NewHTTPClient(cfg, logger)
}

// NullClient is the no-remote implementation: always disconnected,
// push/pull/clear no-op. Selected when no remote configuration is present,
// which is not an error condition.
type NullClient struct {
	logger *events.Logger
}

// NewNullClient creates a disabled remote client.
func NewNullClient(logger *events.Logger) *NullClient {
	return &NullClient{logger: logger.WithField("component", "null_remote")}
}

// Probe skips probing entirely.
func (c *NullClient) Probe(ctx context.Context) error {
	c.logger.Debug("Remote tier not configured, staying local-only")
	return nil
}

// Status always reports disconnected.
func (c *NullClient) Status() models.ConnectionStatus {
	return models.StatusDisconnected
}

// PushAll is a no-op.
func (c *NullClient) PushAll(ctx context.Context, records []models.PairRecord) error {
	return nil
}

// PullAll reports the remote tier as unavailable.
func (c *NullClient) PullAll(ctx context.Context) ([]models.PairRecord, error) {
	return nil, models.ErrRemoteUnavailable
}

// Clear is a no-op.
func (c *NullClient) Clear(ctx context.Context) error {
	return nil
}

// Subscribe is a no-op.
func (c *NullClient) Subscribe(ctx context.Context, fn func(models.ChangeEvent)) error {
	return nil
}

// Close is a no-op.
func (c *NullClient) Close() error {
	return nil
}
