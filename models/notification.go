package models

import "time"

// Notification is one entry of the user-action log.
type Notification struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Notification actions written by the registry operations.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
	ActionUpload = "upload"
	ActionLogin  = "login"
	ActionConfig = "config"
)
