// Package service implements the lookup service: the single owner of the
// authoritative pair record list, the derived lookup index, and the
// dual-tier persistence protocol around them.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/Lorandel/Warehouse-Ramps/internal/config"
	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/lookup"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
	"github.com/Lorandel/Warehouse-Ramps/internal/remote"
	"github.com/Lorandel/Warehouse-Ramps/internal/store"
)

// Service orchestrates the lookup data set across the local and remote
// tiers. All mutations are serialized behind one mutex and synchronously
// rebuild the index before returning; consumers only ever see snapshots.
type Service struct {
	local  store.Store
	remote remote.Client
	cfg    config.SyncConfig
	logger *events.Logger

	mu          sync.Mutex
	records     []models.PairRecord
	index       *lookup.Index
	lastUpdated time.Time
	isLoading   bool
	lastErr     string
	deviceID    string

	// Remote-refresh state: debounce timestamp, re-entrancy guard, and
	// the consecutive-failure counter. Guarded separately so a slow
	// refresh never blocks lookups.
	refreshMu       sync.Mutex
	refreshing      bool
	lastAccepted    time.Time
	refreshFailures int

	subMu       sync.Mutex
	subscribers map[int]func(models.ChangeNotice)
	nextSubID   int
}

// New creates a lookup service over the given tiers.
func New(local store.Store, remoteClient remote.Client, cfg config.SyncConfig, logger *events.Logger) *Service {
	return &Service{
		local:       local,
		remote:      remoteClient,
		cfg:         cfg,
		logger:      logger.WithField("component", "lookup_service"),
		index:       lookup.BuildIndex(nil),
		subscribers: make(map[int]func(models.ChangeNotice)),
	}
}

// Start runs the startup sequence once per session: probe the remote tier,
// adopt a non-empty remote pull (writing it through to the local store),
// otherwise fall back to local state, and register the change subscription.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	s.isLoading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
	}()

	if id, err := s.local.DeviceID(); err != nil {
		s.logger.WithError(err).Warn("Device ID unavailable")
	} else {
		s.mu.Lock()
		s.deviceID = id
		s.mu.Unlock()
	}

	// Probe failure is soft: the local tier stays authoritative.
	_ = s.remote.Probe(ctx)

	adopted := false
	if s.remote.Status() == models.StatusConnected {
		if records, err := s.remote.PullAll(ctx); err != nil {
			s.logger.WithError(err).Warn("Initial remote pull failed, using local data")
		} else if len(records) > 0 {
			s.adopt(ctx, records, true)
			adopted = true
		}
	}

	if !adopted {
		records, updated, err := s.local.Load()
		if err != nil && err != models.ErrNotFound {
			s.logger.WithError(err).Warn("Local load failed, starting empty")
		}

		s.mu.Lock()
		s.records = records
		s.index = lookup.BuildIndex(records)
		s.lastUpdated = updated
		s.mu.Unlock()
	}

	if s.remote.Status() == models.StatusConnected {
		if err := s.remote.Subscribe(ctx, s.onRemoteChange); err != nil {
			s.logger.WithError(err).Warn("Change subscription unavailable")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"records": s.DataCount(),
		"status":  string(s.remote.Status()),
	}).Info("Lookup service started")

	s.notify()
	return nil
}

// UploadImport applies an imported record set. In merge mode (with existing
// data present) trucks in the import replace their prior pairs while
// unrelated pairs survive; otherwise the import replaces everything.
func (s *Service) UploadImport(ctx context.Context, incoming []models.PairRecord, mergeMode bool) error {
	s.mu.Lock()

	var next []models.PairRecord
	if mergeMode && len(s.records) > 0 {
		next = lookup.MergeByTruckIdentity(s.records, incoming)
	} else {
		next = lookup.FilterBlank(incoming)
	}

	s.applyLocked(ctx, next)
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"imported": len(incoming),
		"total":    len(next),
		"merge":    mergeMode,
	}).Info("Import applied")

	s.notify()
	return nil
}

// AddOrUpdatePair applies a manual pairing and returns a human-readable
// message. Validation and conflict errors leave state untouched.
func (s *Service) AddOrUpdatePair(ctx context.Context, truck, trailer string) (string, error) {
	s.mu.Lock()

	updated, msg, err := lookup.AddOrUpdate(s.records, truck, trailer)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	s.applyLocked(ctx, updated)
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"truck":   truck,
		"trailer": trailer,
	}).Info(msg)

	s.notify()
	return msg, nil
}

// Clear empties the data set in both tiers.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.index = lookup.BuildIndex(nil)
	s.lastUpdated = time.Now().UTC()

	if err := s.local.Clear(); err != nil {
		s.logger.WithError(err).Error("Local clear failed")
		s.lastErr = "local data may not survive a reload"
	}

	if err := s.remote.Clear(ctx); err != nil && err != models.ErrRemoteUnavailable {
		s.logger.WithError(err).Warn("Remote clear failed")
	}
	s.mu.Unlock()

	s.logger.Info("Lookup data cleared")
	s.notify()
	return nil
}

// ForceRefresh re-pulls from the remote tier on user request. Unlike the
// background refresh it reports remote unavailability as an error, since
// the user expects feedback.
func (s *Service) ForceRefresh(ctx context.Context) error {
	if s.remote.Status() != models.StatusConnected {
		return models.ErrRemoteUnavailable
	}

	records, err := s.remote.PullAll(ctx)
	if err != nil {
		return &models.SyncError{Code: models.ErrCodeRemote, Op: "force_refresh", Err: err}
	}

	if len(records) > 0 {
		s.adopt(ctx, records, true)
	}

	s.notify()
	return nil
}

// LookupTrailerByTruck resolves a truck to its paired trailer.
func (s *Service) LookupTrailerByTruck(input string) (string, bool) {
	s.mu.Lock()
	idx := s.index
	s.mu.Unlock()
	return idx.TrailerByTruck(input)
}

// LookupTruckByTrailer resolves a trailer to its paired truck, with the
// "o-" prefix transparent in both directions.
func (s *Service) LookupTruckByTrailer(input string) (string, bool) {
	s.mu.Lock()
	idx := s.index
	s.mu.Unlock()
	return idx.TruckByTrailer(input)
}

// Records returns a copy of the authoritative record list.
func (s *Service) Records() []models.PairRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PairRecord(nil), s.records...)
}

// DataCount returns the number of records.
func (s *Service) DataCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Snapshot returns the observable service state.
func (s *Service) Snapshot() models.ServiceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.ServiceSnapshot{
		DataCount:   len(s.records),
		LastUpdated: s.lastUpdated,
		IsLoading:   s.isLoading,
		LastError:   s.lastErr,
		Status:      s.remote.Status(),
		DeviceID:    s.deviceID,
	}
}

// Subscribe registers a change-notice callback and returns its cancel
// function. Notices fire after every successful mutation.
func (s *Service) Subscribe(fn func(models.ChangeNotice)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// applyLocked installs a new record list: write-through to the local store,
// best-effort push to the remote tier, synchronous reindex. Caller holds mu.
func (s *Service) applyLocked(ctx context.Context, records []models.PairRecord) {
	s.records = records
	s.index = lookup.BuildIndex(records)
	s.lastUpdated = time.Now().UTC()
	s.lastErr = ""

	if err := s.local.Save(records, s.lastUpdated); err != nil {
		// Keep operating in memory for the rest of the session.
		s.logger.WithError(err).Error("Local save failed")
		s.lastErr = "local data may not survive a reload"
	}

	if err := s.remote.PushAll(ctx, records); err != nil && err != models.ErrRemoteUnavailable {
		s.logger.WithError(err).Warn("Remote push failed")
	}
}

// adopt installs records pulled from the remote tier, optionally writing
// them through to the local store.
func (s *Service) adopt(ctx context.Context, records []models.PairRecord, writeThrough bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.index = lookup.BuildIndex(records)
	s.lastUpdated = time.Now().UTC()
	s.lastErr = ""

	if writeThrough {
		if err := s.local.Save(records, s.lastUpdated); err != nil {
			s.logger.WithError(err).Error("Write-through save failed")
			s.lastErr = "local data may not survive a reload"
		}
	}
}

// notify broadcasts a typed change notice to all subscribers.
func (s *Service) notify() {
	notice := models.ChangeNotice{
		DataCount: s.DataCount(),
		Timestamp: time.Now().UTC(),
	}

	s.subMu.Lock()
	fns := make([]func(models.ChangeNotice), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(notice)
	}
}
