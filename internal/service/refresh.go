package service

import (
	"context"
	"time"

	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// onRemoteChange handles a change notification from another device. The
// notification carries no data, so an accepted one triggers a debounced,
// settle-delayed re-pull.
func (s *Service) onRemoteChange(event models.ChangeEvent) {
	s.refreshMu.Lock()
	if !s.lastAccepted.IsZero() && time.Since(s.lastAccepted) < s.cfg.DebounceWindow {
		s.refreshMu.Unlock()
		s.logger.Debug("Change notification debounced")
		return
	}
	s.lastAccepted = time.Now()
	s.refreshMu.Unlock()

	s.logger.WithField("remote_ts", event.Timestamp.UTC().Format(time.RFC3339)).
		Debug("Change notification accepted")

	go func() {
		if err := s.refresh(context.Background()); err != nil && err != models.ErrRefreshInProgress {
			s.logger.WithError(err).Warn("Remote-triggered refresh failed")
		}
	}()
}

// refresh waits for the remote store to settle, then pulls and adopts fresh
// state. A refresh arriving while one is in flight is dropped, not queued.
// Repeated failures surface a persistent error; prior records are never
// discarded on a failed refresh.
func (s *Service) refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	if s.refreshing {
		s.refreshMu.Unlock()
		return models.ErrRefreshInProgress
	}
	s.refreshing = true
	s.refreshMu.Unlock()

	defer func() {
		s.refreshMu.Lock()
		s.refreshing = false
		s.refreshMu.Unlock()
	}()

	if s.cfg.SettleDelay > 0 {
		select {
		case <-time.After(s.cfg.SettleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	records, err := s.remote.PullAll(ctx)
	if err != nil {
		s.refreshMu.Lock()
		s.refreshFailures++
		failures := s.refreshFailures
		s.refreshMu.Unlock()

		if failures >= s.cfg.MaxRefreshFailures {
			s.mu.Lock()
			s.lastErr = "remote refresh keeps failing; data may be stale"
			s.mu.Unlock()
			s.logger.WithFields(map[string]interface{}{
				"failures": failures,
			}).Error("Refresh failing persistently, keeping prior data")
		}

		return &models.SyncError{Code: models.ErrCodeRemote, Op: "refresh", Err: err}
	}

	s.refreshMu.Lock()
	s.refreshFailures = 0
	s.refreshMu.Unlock()

	if len(records) > 0 {
		s.adopt(ctx, records, true)
		s.notify()
	}

	return nil
}
