package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DriveCredential is the claim set of the signed storage credential kept in
// the HTTP-only cookie. It carries the OAuth token pair issued by the file
// storage provider.
type DriveCredential struct {
	jwt.RegisteredClaims

	AccessToken  string    `json:"at"`
	RefreshToken string    `json:"rt,omitempty"`
	TokenType    string    `json:"tt,omitempty"`
	Expiry       time.Time `json:"exp_at"`
}
