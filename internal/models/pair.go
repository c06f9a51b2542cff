package models

import (
	"strings"
	"time"
)

// PairRecord is one truck/trailer association from the yard sheet.
// Sequence is the 1-based display position assigned at import time; it is
// never used as an identity key.
type PairRecord struct {
	Truck    string `json:"truck"`
	Trailer  string `json:"trailer"`
	Sequence int    `json:"sequence"`
}

// IsBlank reports whether both identifiers are empty after trimming.
// Blank records are invalid and dropped by every merge path.
func (r PairRecord) IsBlank() bool {
	return strings.TrimSpace(r.Truck) == "" && strings.TrimSpace(r.Trailer) == ""
}

// ConnectionStatus tracks the remote tier's availability.
type ConnectionStatus string

const (
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
)

// ChangeEvent is the marker delivered by the remote change subscription.
// It carries no row data; consumers must re-pull to see fresh state.
type ChangeEvent struct {
	Table     string    `json:"table"`
	Timestamp time.Time `json:"timestamp"`
}

// ChangeNotice is the typed payload broadcast to local subscribers after
// every successful mutation of the authoritative record list.
type ChangeNotice struct {
	DataCount int       `json:"data_count"`
	Timestamp time.Time `json:"timestamp"`
}

// ServiceSnapshot is a read-only view of the lookup service's observable
// state for presentation-layer consumers.
type ServiceSnapshot struct {
	DataCount   int              `json:"data_count"`
	LastUpdated time.Time        `json:"last_updated"`
	IsLoading   bool             `json:"is_loading"`
	LastError   string           `json:"last_error,omitempty"`
	Status      ConnectionStatus `json:"connection_status"`
	DeviceID    string           `json:"device_id,omitempty"`
}
