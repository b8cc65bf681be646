package service

import (
	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/store"
)

type ClientServices struct {
	Persistence PersistenceService
	Connector   RemoteConnector
	Dashboard   DashboardService
	DriveLink   DriveLinkJob
}

func NewClientServices(cfg *config.ClientConfig, storages *store.ClientStorages, drive adapter.DriveAdapter,
	logger *logger.Logger) *ClientServices {
	persistence := NewPersistenceService(storages.LocalStorage, logger)
	connector := NewHTTPRemoteConnector(cfg.Adapter, logger)
	dashboard := NewDashboardService(cfg.Sync, persistence, connector, drive, logger)

	return &ClientServices{
		Persistence: persistence,
		Connector:   connector,
		Dashboard:   dashboard,
		DriveLink:   NewDriveLinkJob(drive, dashboard, logger),
	}
}
