package models

// SyncStatus is the state of the remote synchronisation.
type SyncStatus string

const (
	// SyncIdle means no remote is configured, or it is not connected yet.
	SyncIdle SyncStatus = "idle"
	// SyncConnected means all subscriptions are established and no push is
	// in flight.
	SyncConnected SyncStatus = "connected"
	// SyncSyncing means a push is in flight.
	SyncSyncing SyncStatus = "syncing"
	// SyncError means a push, a subscription or the initialisation failed.
	SyncError SyncStatus = "error"
)

// ChangeKind names the part of [AppState] touched by a mutation.
type ChangeKind string

const (
	ChangeInstitutions  ChangeKind = "institutions"
	ChangeBeneficiaries ChangeKind = "beneficiaries"
	ChangeLetters       ChangeKind = "letters"
	ChangeUsers         ChangeKind = "users"
	ChangeBranding      ChangeKind = "branding"
	ChangeNotifications ChangeKind = "notifications"
	ChangeSession       ChangeKind = "session"
	ChangeCloudConfig   ChangeKind = "cloud_config"
)

// Syncable reports whether a change of this kind is pushed to the remote
// store. Session and cloud-config changes are local only.
func (k ChangeKind) Syncable() bool {
	switch k {
	case ChangeSession, ChangeCloudConfig:
		return false
	default:
		return true
	}
}
