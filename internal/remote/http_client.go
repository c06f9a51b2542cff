package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"

	"github.com/Lorandel/Warehouse-Ramps/internal/config"
	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

const tablePath = "/rest/v1/lookup_data"

// lookupRow is the wire shape of one lookup_data table row.
type lookupRow struct {
	ID        string    `json:"id,omitempty"`
	Truck     string    `json:"truck"`
	Trailer   string    `json:"trailer"`
	RowNumber int       `json:"row_number"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HTTPClient talks to the remote table store over HTTP and maintains the
// websocket change subscription.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *events.Logger

	probeTimeout   time.Duration
	pullTimeout    time.Duration
	pushTimeout    time.Duration
	probeRetries   int
	probeRetryStep time.Duration
	batchSize      int
	maxRetries     int

	mu     sync.Mutex
	status models.ConnectionStatus
	ws     *wsSubscription
}

// NewHTTPClient creates a remote table client in the connecting state.
func NewHTTPClient(cfg *config.RemoteConfig, logger *events.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.WithError(err).Warn("Failed to configure HTTP/2")
	}

	return &HTTPClient{
		client:         &http.Client{Transport: transport},
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		logger:         logger.WithField("component", "remote_client"),
		probeTimeout:   cfg.ProbeTimeout,
		pullTimeout:    cfg.PullTimeout,
		pushTimeout:    cfg.PushTimeout,
		probeRetries:   cfg.ProbeRetries,
		probeRetryStep: cfg.ProbeRetryStep,
		batchSize:      cfg.BatchSize,
		maxRetries:     cfg.MaxRetries,
		status:         models.StatusConnecting,
	}
}

// Status returns the current connection status.
func (c *HTTPClient) Status() models.ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *HTTPClient) setStatus(status models.ConnectionStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

// Probe checks remote health with bounded retries. Attempt n waits
// n * probeRetryStep before running; exhausting all attempts resolves the
// client to disconnected, permanently for this process.
func (c *HTTPClient) Probe(ctx context.Context) error {
	var lastErr error

	for attempt := 0; attempt < c.probeRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.probeRetryStep
			c.logger.WithFields(map[string]interface{}{
				"attempt": attempt + 1,
				"delay":   delay.String(),
			}).Debug("Retrying probe")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				c.setStatus(models.StatusDisconnected)
				return ctx.Err()
			}
		}

		if err := c.probeOnce(ctx); err != nil {
			lastErr = err
			continue
		}

		c.setStatus(models.StatusConnected)
		c.logger.Info("Remote store connected")
		return nil
	}

	c.setStatus(models.StatusDisconnected)
	c.logger.WithError(lastErr).Warn("Remote store unreachable, continuing local-only")
	return fmt.Errorf("probe failed after %d attempts: %w", c.probeRetries, lastErr)
}

func (c *HTTPClient) probeOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, tablePath+"?select=id&limit=1", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &models.RemoteError{Op: "probe", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &models.RemoteError{Op: "probe", StatusCode: resp.StatusCode, Message: string(body)}
	}

	return nil
}

// PullAll fetches all remote rows ordered by row number.
func (c *HTTPClient) PullAll(ctx context.Context) ([]models.PairRecord, error) {
	if c.Status() != models.StatusConnected {
		return nil, models.ErrRemoteUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.pullTimeout)
	defer cancel()

	var rows []lookupRow
	err := c.retry(ctx, "pull", func() error {
		req, err := c.newRequest(ctx, http.MethodGet, tablePath+"?select=*&order=row_number.asc", nil)
		if err != nil {
			return err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return &models.RemoteError{Op: "pull", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return &models.RemoteError{Op: "pull", StatusCode: resp.StatusCode, Message: string(body)}
		}

		rows = rows[:0]
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			return &models.RemoteError{Op: "pull", Err: fmt.Errorf("decode rows: %w", err)}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.PairRecord, len(rows))
	for i, row := range rows {
		records[i] = models.PairRecord{
			Truck:    row.Truck,
			Trailer:  row.Trailer,
			Sequence: row.RowNumber,
		}
	}

	c.logger.WithField("records", len(records)).Debug("Pulled remote rows")
	return records, nil
}

// PushAll replaces the remote row set: delete-all, then inserts in batches
// to bound payload size. At-least-once and non-atomic; batches inserted
// before a failure are not rolled back. The whole replacement runs under
// the push timeout so a hung remote resolves to a failure instead of a
// pending operation.
func (c *HTTPClient) PushAll(ctx context.Context, records []models.PairRecord) error {
	if c.Status() != models.StatusConnected {
		return models.ErrRemoteUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.pushTimeout)
	defer cancel()

	if err := c.deleteAll(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	for start := 0; start < len(records); start += c.batchSize {
		end := start + c.batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := make([]lookupRow, 0, end-start)
		for _, rec := range records[start:end] {
			batch = append(batch, lookupRow{
				ID:        uuid.NewString(),
				Truck:     rec.Truck,
				Trailer:   rec.Trailer,
				RowNumber: rec.Sequence,
				UpdatedAt: now,
			})
		}

		if err := c.insertBatch(ctx, batch); err != nil {
			return fmt.Errorf("insert batch at row %d: %w", start+1, err)
		}
	}

	c.logger.WithField("records", len(records)).Debug("Pushed rows to remote")
	return nil
}

// Clear deletes all remote rows.
func (c *HTTPClient) Clear(ctx context.Context) error {
	if c.Status() != models.StatusConnected {
		return models.ErrRemoteUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.pushTimeout)
	defer cancel()

	return c.deleteAll(ctx)
}

func (c *HTTPClient) deleteAll(ctx context.Context) error {
	return c.retry(ctx, "delete", func() error {
		req, err := c.newRequest(ctx, http.MethodDelete, tablePath+"?id=not.is.null", nil)
		if err != nil {
			return err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return &models.RemoteError{Op: "delete", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			body, _ := io.ReadAll(resp.Body)
			return &models.RemoteError{Op: "delete", StatusCode: resp.StatusCode, Message: string(body)}
		}

		return nil
	})
}

func (c *HTTPClient) insertBatch(ctx context.Context, batch []lookupRow) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	return c.retry(ctx, "insert", func() error {
		req, err := c.newRequest(ctx, http.MethodPost, tablePath, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")

		resp, err := c.client.Do(req)
		if err != nil {
			return &models.RemoteError{Op: "insert", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK &&
			resp.StatusCode != http.StatusNoContent {
			body, _ := io.ReadAll(resp.Body)
			return &models.RemoteError{Op: "insert", StatusCode: resp.StatusCode, Message: string(body)}
		}

		return nil
	})
}

// Subscribe opens the websocket change subscription. A drop, close, or read
// error flips the client to disconnected; there is no automatic reconnect.
func (c *HTTPClient) Subscribe(ctx context.Context, fn func(models.ChangeEvent)) error {
	if c.Status() != models.StatusConnected {
		return models.ErrRemoteUnavailable
	}

	c.mu.Lock()
	if c.ws != nil {
		c.ws.close()
		c.ws = nil
	}
	c.mu.Unlock()

	ws, err := newWSSubscription(c.baseURL, c.apiKey, c.logger)
	if err != nil {
		return err
	}

	if err := ws.connect(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()

	go func() {
		for event := range ws.events() {
			fn(event)
		}

		// Channel closed. Only the current subscription dropping means the
		// remote tier is gone; a torn-down predecessor (Close, resubscribe)
		// must not touch the status.
		c.mu.Lock()
		current := c.ws == ws
		if current {
			c.ws = nil
			c.status = models.StatusDisconnected
		}
		c.mu.Unlock()

		if current {
			c.logger.Warn("Change subscription closed, remote tier disconnected")
		}
	}()

	return nil
}

// Close tears down the subscription.
func (c *HTTPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws != nil {
		c.ws.close()
		c.ws = nil
	}
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return req, nil
}

// retry executes fn with exponential backoff on retryable failures.
func (c *HTTPClient) retry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	delay := time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(map[string]interface{}{
				"op":      op,
				"attempt": attempt,
				"delay":   delay.String(),
			}).Debug("Retrying remote request")

			select {
			case <-time.After(delay):
				delay *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable reports whether a remote failure is worth another attempt.
func isRetryable(err error) bool {
	var remoteErr *models.RemoteError
	if !errors.As(err, &remoteErr) {
		return false
	}

	if remoteErr.StatusCode == 0 {
		// Network-level failure.
		return true
	}

	return remoteErr.StatusCode == http.StatusTooManyRequests ||
		(remoteErr.StatusCode >= 500 && remoteErr.StatusCode < 600)
}
