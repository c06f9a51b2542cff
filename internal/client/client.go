// Package client wires configuration, storage tiers, and the lookup
// service into one ready-to-use object.
package client

import (
	"context"
	"path/filepath"

	"github.com/Lorandel/Warehouse-Ramps/internal/config"
	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/remote"
	"github.com/Lorandel/Warehouse-Ramps/internal/service"
	"github.com/Lorandel/Warehouse-Ramps/internal/store"
)

// Client provides the high-level API for lookup operations.
type Client struct {
	Lookup *service.Service

	config *config.Config
	logger *events.Logger
	local  store.Store
	remote remote.Client
}

// New creates a client from config. The remote tier is selected by
// configuration presence; the local tier by the storage driver.
func New(cfg *config.Config, logger *events.Logger) (*Client, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	var local store.Store
	var err error
	switch cfg.Storage.Driver {
	case "json":
		local, err = store.NewJSONStore(cfg.Storage.DataDir, logger)
	default:
		local, err = store.NewSQLiteStore(filepath.Join(cfg.Storage.DataDir, "lookup.db"), logger)
	}
	if err != nil {
		return nil, err
	}

	remoteClient := remote.NewClient(&cfg.Remote, logger)

	svc := service.New(local, remoteClient, cfg.Sync, logger)

	return &Client{
		Lookup: svc,
		config: cfg,
		logger: logger,
		local:  local,
		remote: remoteClient,
	}, nil
}

// Start runs the lookup service startup sequence.
func (c *Client) Start(ctx context.Context) error {
	return c.Lookup.Start(ctx)
}

// Close releases the storage tiers and tears down the change subscription.
func (c *Client) Close() error {
	if err := c.remote.Close(); err != nil {
		c.logger.WithError(err).Warn("Remote close failed")
	}
	return c.local.Close()
}
