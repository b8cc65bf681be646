package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
	"golang.org/x/oauth2"
)

// statePending marks a started flow whose callback has not arrived yet.
const statePending = "\x00pending"

type oauthService struct {
	oauth    *oauth2.Config
	states   store.StateStore
	signer   *utils.CredentialSigner
	stateTTL time.Duration
	uuid     *utils.UUIDGenerator

	logger *logger.Logger
}

// NewOAuthService builds the authorization flow. The service is usable
// without a client id and secret; AuthURL then fails with
// [ErrOAuthNotConfigured].
func NewOAuthService(cfg config.OAuth, appCfg config.App, states store.StateStore, logger *logger.Logger) (OAuthService, error) {
	signer, err := utils.NewCredentialSigner(appCfg.TokenSignKey, appCfg.TokenIssuer, appCfg.CredentialDuration)
	if err != nil {
		return nil, err
	}

	var oauthCfg *oauth2.Config
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		}
	}

	return &oauthService{
		oauth:    oauthCfg,
		states:   states,
		signer:   signer,
		stateTTL: cfg.StateTTL,
		uuid:     utils.NewUUIDGenerator(),
		logger:   logger,
	}, nil
}

func (s *oauthService) AuthURL(ctx context.Context) (models.AuthURL, error) {
	if s.oauth == nil {
		return models.AuthURL{}, ErrOAuthNotConfigured
	}

	state := s.uuid.Generate()
	if err := s.states.Put(ctx, state, statePending, s.stateTTL); err != nil {
		return models.AuthURL{}, fmt.Errorf("store authorization state: %w", err)
	}

	url := s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return models.AuthURL{URL: url, State: state}, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, code, state string) (string, error) {
	if s.oauth == nil {
		return "", ErrOAuthNotConfigured
	}
	if code == "" || state == "" {
		return "", ErrInvalidAuthState
	}

	value, err := s.states.Get(ctx, state)
	if errors.Is(err, store.ErrStateNotFound) || (err == nil && value != statePending) {
		return "", ErrInvalidAuthState
	}
	if err != nil {
		return "", err
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "oauthService.HandleCallback").
			Msg("code exchange failed")
		return "", fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err)
	}

	credential, err := s.signer.Sign(token)
	if err != nil {
		return "", err
	}

	if err = s.states.Put(ctx, state, credential, s.stateTTL); err != nil {
		return "", fmt.Errorf("store authorization result: %w", err)
	}

	return credential, nil
}

func (s *oauthService) AuthStatus(ctx context.Context, state string) (models.AuthStatus, error) {
	value, err := s.states.Get(ctx, state)
	if errors.Is(err, store.ErrStateNotFound) {
		return models.AuthStatus{}, ErrInvalidAuthState
	}
	if err != nil {
		return models.AuthStatus{}, err
	}

	if value == statePending {
		return models.AuthStatus{Status: models.AuthPending}, nil
	}

	if err = s.states.Delete(ctx, state); err != nil {
		s.logger.Err(err).Str("func", "oauthService.AuthStatus").Msg("failed to drop finished state")
	}
	return models.AuthStatus{Status: models.AuthComplete, Credential: value}, nil
}

func (s *oauthService) Client(ctx context.Context, credential string) (*http.Client, error) {
	if s.oauth == nil {
		return nil, ErrOAuthNotConfigured
	}

	token, err := s.signer.Parse(credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	}

	return s.oauth.Client(ctx, token), nil
}
