package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// JSONStore implements file-based local persistence. It keeps one state
// file with a checksum plus a backup copy, and a separate device-ID file so
// the identifier survives a data clear.
type JSONStore struct {
	baseDir string
	logger  *events.Logger

	mu sync.RWMutex
}

// stateFile is the on-disk shape of the persisted lookup data.
type stateFile struct {
	SchemaVersion int                 `json:"schema_version"`
	LastUpdated   time.Time           `json:"last_updated"`
	Records       []models.PairRecord `json:"records"`
	Checksum      string              `json:"checksum,omitempty"`
}

// NewJSONStore creates a JSON-based store.
func NewJSONStore(baseDir string, logger *events.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	return &JSONStore{
		baseDir: baseDir,
		logger:  logger.WithField("component", "json_store"),
	}, nil
}

// Save writes the record list atomically: tmp file, fsync, rename, with a
// backup of the previous state kept for corruption recovery.
func (s *JSONStore) Save(records []models.PairRecord, updated time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.statePath()

	s.logger.WithFields(map[string]interface{}{
		"records": len(records),
		"path":    path,
	}).Debug("Saving state")

	state := stateFile{
		SchemaVersion: CurrentSchemaVersion,
		LastUpdated:   updated.UTC(),
		Records:       records,
	}

	checksumData, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state for checksum: %w", err)
	}
	hash := sha256.Sum256(checksumData)
	state.Checksum = hex.EncodeToString(hash[:])

	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".backup"); err != nil {
			s.logger.WithError(err).Warn("Failed to create backup")
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, jsonData, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if file, err := os.Open(tmpPath); err == nil {
		_ = file.Sync()
		file.Close()
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// Load reads the record list, falling back to the backup file and finally
// to absent when the stored state is corrupt.
func (s *JSONStore) Load() ([]models.PairRecord, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.statePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, time.Time{}, models.ErrNotFound
	}

	state, err := s.readState(path)
	if err != nil {
		s.logger.WithError(err).Warn("State file unusable, trying backup")

		state, err = s.readState(path + ".backup")
		if err != nil {
			// Fail open to empty state rather than crash.
			return nil, time.Time{}, models.ErrNotFound
		}
		s.logger.Warn("Loaded state from backup due to corruption")
	}

	return state.Records, state.LastUpdated, nil
}

// readState parses and checksum-verifies one state file.
func (s *JSONStore) readState(path string) (*stateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	if state.Checksum != "" {
		verification := state
		verification.Checksum = ""
		verifyData, _ := json.Marshal(verification)
		hash := sha256.Sum256(verifyData)

		if calculated := hex.EncodeToString(hash[:]); calculated != state.Checksum {
			return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", state.Checksum, calculated)
		}
	}

	if state.SchemaVersion != CurrentSchemaVersion {
		s.logger.WithField("version", state.SchemaVersion).Warn("State schema version mismatch")
	}

	return &state, nil
}

// Clear removes the state and backup files. The device ID file stays.
func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("Clearing stored records")

	path := s.statePath()
	_ = os.Remove(path)
	_ = os.Remove(path + ".backup")

	return nil
}

// DeviceID returns the persisted device identifier, generating it once.
func (s *JSONStore) DeviceID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.baseDir, "device_id")

	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("persist device ID: %w", err)
	}

	s.logger.WithField("device_id", id).Info("Generated device ID")
	return id, nil
}

// Close releases resources.
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) statePath() string {
	return filepath.Join(s.baseDir, "lookup_data.json")
}
