package models

// UploadResult is returned by the attachment upload endpoint.
type UploadResult struct {
	FileID       string `json:"fileId"`
	Name         string `json:"name"`
	ViewLink     string `json:"viewLink"`
	DownloadLink string `json:"downloadLink"`
}

// AuthURL is returned by the authorization-url endpoint. State identifies the
// flow when a client polls for its outcome.
type AuthURL struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// Authorization flow states.
const (
	AuthPending  = "pending"
	AuthComplete = "complete"
)

// AuthStatus is the polled outcome of an authorization flow.
type AuthStatus struct {
	Status     string `json:"status"`
	Credential string `json:"credential,omitempty"`
}

// DriveCredentialCookie is the HTTP-only cookie holding the signed storage
// credential.
const DriveCredentialCookie = "drive_credential"
