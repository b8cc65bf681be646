package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
)

// DocumentStoreFactory creates a handle for a validated cloud config.
type DocumentStoreFactory func(cloud models.CloudConfig) (adapter.DocumentStore, error)

type remoteConnector struct {
	factory DocumentStoreFactory
	logger  *logger.Logger

	mu        sync.Mutex
	cached    adapter.DocumentStore
	cachedFor models.CloudConfig
}

// NewRemoteConnector creates a RemoteConnector that builds handles with
// factory.
func NewRemoteConnector(factory DocumentStoreFactory, logger *logger.Logger) RemoteConnector {
	return &remoteConnector{factory: factory, logger: logger}
}

// NewHTTPRemoteConnector creates a RemoteConnector over the HTTP document
// store client.
func NewHTTPRemoteConnector(adapterCfg config.ClientAdapter, logger *logger.Logger) RemoteConnector {
	return NewRemoteConnector(func(cloud models.CloudConfig) (adapter.DocumentStore, error) {
		return adapter.NewDocumentStore(adapterCfg, cloud, logger)
	}, logger)
}

func (c *remoteConnector) Connect(ctx context.Context, cloud models.CloudConfig) (adapter.DocumentStore, error) {
	if cloud.IsEmpty() {
		return nil, ErrRemoteNotConfigured
	}

	handle, err := c.handle(cloud)
	if err != nil {
		return nil, err
	}

	if _, err = handle.GetConfig(ctx); err != nil && !errors.Is(err, adapter.ErrNotFound) {
		c.logger.Err(err).
			Str("func", "remoteConnector.Connect").
			Str("project", cloud.ProjectID).
			Msg("remote probe failed")
		return nil, fmt.Errorf("%w: %w", ErrInvalidCloudConfig, err)
	}

	return handle, nil
}

func (c *remoteConnector) handle(cloud models.CloudConfig) (adapter.DocumentStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.cachedFor == cloud {
		return c.cached, nil
	}

	if err := cloud.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCloudConfig, err)
	}
	handle, err := c.factory(cloud)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCloudConfig, err)
	}

	c.cached, c.cachedFor = handle, cloud
	return handle, nil
}
