package models

import (
	"fmt"
	"strings"
)

// User roles recognised by the dashboard.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User is a dashboard account. Users are part of the config blob so every
// client of a project shares the same account list.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`

	// PasswordHash is a bcrypt hash. Plain passwords never leave the login
	// form.
	PasswordHash string `json:"passwordHash"`
}

// Validate requires a username and a password hash.
func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("user: %w: username", ErrMissingField)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user %s: %w: passwordHash", u.Username, ErrMissingField)
	}
	return nil
}

// Public returns the user without credential material, suitable for the
// current-user key.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
