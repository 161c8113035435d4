package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"kairooms/internal/auth/provider"
	usersservice "kairooms/internal/users/service"
	"kairooms/pkg/config"
	"kairooms/pkg/token"
)

type AuthService interface {
	// LoginURL is the consent-screen redirect target for a fresh login.
	LoginURL(state string) string
	// HandleCallback completes the OAuth exchange and returns the frontend
	// URL to redirect to. Failures also come back as a redirect URL, so the
	// browser never sees a bare API error page.
	HandleCallback(ctx context.Context, code string) string
}

type authService struct {
	provider provider.IdentityProvider
	users    usersservice.UserService
	issuer   *token.Issuer
	cfg      *config.Config
}

func NewAuthService(
	identityProvider provider.IdentityProvider,
	users usersservice.UserService,
	issuer *token.Issuer,
	cfg *config.Config,
) AuthService {
	return &authService{
		provider: identityProvider,
		users:    users,
		issuer:   issuer,
		cfg:      cfg,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

func (s *authService) HandleCallback(ctx context.Context, code string) string {
	identity, err := s.provider.FetchIdentity(ctx, code)
	if err != nil {
		s.cfg.Log.Error("OAuth exchange failed", "error", err)
		return s.errorRedirect("Google sign-in failed. Please try again.")
	}

	user, err := s.users.EnsureGoogleUser(ctx, identity.Name, identity.Email, identity.Picture)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve Google user", "email", identity.Email, "error", err)
		return s.errorRedirect("Could not sign you in. Please try again.")
	}

	if !user.IsApproved && !s.cfg.IsAdminEmail(user.Email) {
		return s.errorRedirect("Your account is pending admin approval.")
	}

	signed, err := s.issuer.Generate(user.ID, user.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token after OAuth login", "id", user.ID, "error", err)
		return s.errorRedirect("Could not sign you in. Please try again.")
	}

	s.cfg.Log.Info("OAuth login succeeded", "id", user.ID, "email", user.Email)
	return s.successRedirect(signed, user.Public())
}

func (s *authService) successRedirect(signed string, user any) string {
	payload, err := json.Marshal(user)
	if err != nil {
		return s.errorRedirect("Could not sign you in. Please try again.")
	}

	query := url.Values{}
	query.Set("token", signed)
	query.Set("user", string(payload))
	return fmt.Sprintf("%s/auth/success?%s", s.frontend(), query.Encode())
}

func (s *authService) errorRedirect(message string) string {
	query := url.Values{}
	query.Set("message", message)
	return fmt.Sprintf("%s/auth/error?%s", s.frontend(), query.Encode())
}

func (s *authService) frontend() string {
	return strings.TrimRight(s.cfg.FrontendURL, "/")
}
