package models

import "slices"

// AppState is the in-memory state of the dashboard. It is owned by a single
// controller goroutine; everything else works on copies.
type AppState struct {
	AppName       string
	AppLogo       string
	Users         []User
	Institutions  []Institution
	Beneficiaries []Beneficiary
	Letters       []Letter
	IsLoggedIn    bool
	CurrentUser   *User
	CloudConfig   CloudConfig
	Notifications []Notification

	// DriveCredential is the signed storage credential returned by the
	// authorization flow. Empty until the user links a storage account.
	DriveCredential string
}

// Clone returns a deep copy of the state.
func (s AppState) Clone() AppState {
	out := s
	out.Users = slices.Clone(s.Users)
	out.Institutions = make([]Institution, len(s.Institutions))
	for i, inst := range s.Institutions {
		out.Institutions[i] = inst.Clone()
	}
	if s.Institutions == nil {
		out.Institutions = nil
	}
	out.Beneficiaries = slices.Clone(s.Beneficiaries)
	out.Letters = slices.Clone(s.Letters)
	out.Notifications = slices.Clone(s.Notifications)
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return out
}

// Config extracts the config blob pushed to the remote store.
func (s AppState) Config() AppConfig {
	return AppConfig{
		SchemaVersion: ConfigSchemaVersion,
		AppName:       s.AppName,
		AppLogo:       s.AppLogo,
		Users:         nonNil(s.Users),
		Letters:       nonNil(s.Letters),
		Notifications: nonNil(s.Notifications),
	}
}

// FindInstitution returns the index of the institution with id, or -1.
func (s AppState) FindInstitution(id string) int {
	return slices.IndexFunc(s.Institutions, func(i Institution) bool { return i.ID == id })
}

// FindBeneficiary returns the index of the beneficiary with id, or -1.
func (s AppState) FindBeneficiary(id string) int {
	return slices.IndexFunc(s.Beneficiaries, func(b Beneficiary) bool { return b.ID == id })
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// DashboardView is what observers of the controller receive after every
// state transition.
type DashboardView struct {
	State  AppState
	Status SyncStatus

	// SyncMessage is the user-facing text of the last sync failure.
	SyncMessage string

	// StorageBanner is non-empty while the last local save failed.
	StorageBanner string

	// RemoteUpdating mirrors the echo-suppression flag.
	RemoteUpdating bool
}
