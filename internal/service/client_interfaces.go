package service

import (
	"context"
	"io"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/models"
)

// DashboardService is the client-side application controller. It owns the
// dashboard state on a single goroutine started by Run; every other method
// sends a command to that goroutine and waits for its result. Methods called
// after Run returned fail with [ErrControllerStopped].
type DashboardService interface {
	// Run loads the persisted state, connects to the configured remote and
	// processes commands until ctx is cancelled.
	Run(ctx context.Context) error

	// Watch returns a channel that receives a [models.DashboardView] after
	// every state transition, starting with the current view. Slow readers
	// only see the latest view. The returned func stops the subscription.
	Watch() (<-chan models.DashboardView, func())

	// View returns the current view.
	View(ctx context.Context) (models.DashboardView, error)

	// Login checks the password against the stored bcrypt hash. The first
	// login on an empty user list creates an admin account.
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	AddUser(ctx context.Context, user models.User, password string) error

	SetAppName(ctx context.Context, name string) error
	SetAppLogo(ctx context.Context, logo string) error

	// SetCloudConfig stores the remote credentials and reconnects. An empty
	// config switches the dashboard to local-only mode.
	SetCloudConfig(ctx context.Context, cloud models.CloudConfig) error
	SetDriveCredential(ctx context.Context, credential string) error

	CreateInstitution(ctx context.Context, inst models.Institution) (models.Institution, error)
	UpdateInstitution(ctx context.Context, inst models.Institution) error
	DeleteInstitution(ctx context.Context, id string) error

	// AttachDocument uploads content and links the result to the institution
	// under kind. The institution is only modified after the upload succeeded.
	AttachDocument(ctx context.Context, institutionID, kind, fileName string, content io.Reader) (models.Attachment, error)

	CreateBeneficiary(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error)
	UpdateBeneficiary(ctx context.Context, b models.Beneficiary) error
	DeleteBeneficiary(ctx context.Context, id string) error

	// ImportBeneficiaries adds all records as one change and returns how many
	// were added.
	ImportBeneficiaries(ctx context.Context, records []models.Beneficiary) (int, error)

	CreateLetter(ctx context.Context, letter models.Letter) (models.Letter, error)

	MarkNotificationsRead(ctx context.Context) error

	// ForcePush runs a sync cycle without waiting for the debounce window.
	// It is the manual retry after a failed push.
	ForcePush(ctx context.Context) error

	ExportInstitutionsCSV(ctx context.Context, w io.Writer) error
	ExportBeneficiariesCSV(ctx context.Context, w io.Writer) error
}

// PersistenceService maps [models.AppState] onto the local key-value store.
type PersistenceService interface {
	// Load rebuilds the state from the stored keys. Missing keys and blobs
	// that fail validation yield zero values.
	Load(ctx context.Context) (models.AppState, error)

	// Persist writes every key of state in one transaction. It returns the
	// banner to display: empty on success, a storage-capacity message when
	// the quota was exceeded and a generic message otherwise.
	Persist(ctx context.Context, state models.AppState) string
}

// RemoteConnector turns a cloud config into a probed document-store handle.
type RemoteConnector interface {
	// Connect returns [ErrRemoteNotConfigured] for an empty config and an
	// error wrapping [ErrInvalidCloudConfig] when the handle cannot be
	// created or the probe fails. Identical configs share one handle.
	Connect(ctx context.Context, cloud models.CloudConfig) (adapter.DocumentStore, error)
}
