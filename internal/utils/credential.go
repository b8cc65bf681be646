package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/lks-registry/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrInvalidCredential is returned when a storage credential cannot be
// verified or has expired.
var ErrInvalidCredential = errors.New("invalid storage credential")

// CredentialSigner turns an OAuth token pair into a signed HMAC-SHA256 JWT
// and back. The JWT is what the client keeps, so the token pair never has
// to be stored server side.
type CredentialSigner struct {
	signKey  []byte
	issuer   string
	duration time.Duration
}

// NewCredentialSigner creates a signer. All parameters are required.
func NewCredentialSigner(signKey, issuer string, duration time.Duration) (*CredentialSigner, error) {
	if signKey == "" || issuer == "" || duration <= 0 {
		return nil, errors.New("invalid params for credential signer")
	}

	return &CredentialSigner{signKey: []byte(signKey), issuer: issuer, duration: duration}, nil
}

// Sign encodes token into a signed credential string.
func (s *CredentialSigner) Sign(token *oauth2.Token) (string, error) {
	if token == nil || token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrInvalidCredential)
	}

	now := time.Now()
	claims := &models.DriveCredential{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing credential: %w", err)
	}

	return signed, nil
}

// Parse verifies signature, issuer and expiry and returns the embedded
// token pair.
func (s *CredentialSigner) Parse(credential string) (*oauth2.Token, error) {
	if credential == "" {
		return nil, ErrInvalidCredential
	}

	claims := &models.DriveCredential{}
	_, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (any, error) {
		return s.signKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if claims.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrInvalidCredential)
	}

	return &oauth2.Token{
		AccessToken:  claims.AccessToken,
		RefreshToken: claims.RefreshToken,
		TokenType:    claims.TokenType,
		Expiry:       claims.Expiry,
	}, nil
}
