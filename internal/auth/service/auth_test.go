package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"kairooms/internal/auth/provider"
	usersservice "kairooms/internal/users/service"
	"kairooms/pkg/config"
	"kairooms/pkg/logger"
	"kairooms/pkg/model"
	"kairooms/pkg/token"
)

type mockProvider struct {
	identity *provider.Identity
	err      error
}

func (m *mockProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (m *mockProvider) FetchIdentity(context.Context, string) (*provider.Identity, error) {
	return m.identity, m.err
}

type mockUsers struct {
	usersservice.UserService
	user *model.User
	err  error
}

func (m *mockUsers) EnsureGoogleUser(context.Context, string, string, string) (*model.User, error) {
	return m.user, m.err
}

func newAuthService(p provider.IdentityProvider, users usersservice.UserService, adminEmails ...string) AuthService {
	cfg := &config.Config{
		FrontendURL: "http://localhost:3000",
		AdminEmails: adminEmails,
		Log:         logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
	return NewAuthService(p, users, token.NewIssuer("test-secret", time.Hour), cfg)
}

func TestLoginURLCarriesState(t *testing.T) {
	svc := newAuthService(&mockProvider{}, &mockUsers{})
	if got := svc.LoginURL("abc123"); !strings.Contains(got, "state=abc123") {
		t.Errorf("LoginURL() = %q, state missing", got)
	}
}

func TestHandleCallbackSuccess(t *testing.T) {
	p := &mockProvider{identity: &provider.Identity{Email: "dana@example.com", Name: "Dana"}}
	users := &mockUsers{user: &model.User{
		ID:           "68b000000000000000000001",
		Name:         "Dana",
		Email:        "dana@example.com",
		Verified:     true,
		IsApproved:   true,
		IsGoogleUser: true,
	}}

	redirect := newAuthService(p, users).HandleCallback(context.Background(), "code")
	if !strings.HasPrefix(redirect, "http://localhost:3000/auth/success?") {
		t.Fatalf("expected success redirect, got %q", redirect)
	}

	parsed, err := url.Parse(redirect)
	if err != nil {
		t.Fatal(err)
	}
	query := parsed.Query()

	claims, err := token.NewIssuer("test-secret", time.Hour).Verify(query.Get("token"))
	if err != nil {
		t.Fatalf("redirect token does not verify: %v", err)
	}
	if claims.UserID != users.user.ID {
		t.Errorf("token subject = %s, want %s", claims.UserID, users.user.ID)
	}

	var pub model.PublicUser
	if err := json.Unmarshal([]byte(query.Get("user")), &pub); err != nil {
		t.Fatalf("user param is not JSON: %v", err)
	}
	if pub.Email != "dana@example.com" {
		t.Errorf("user param email = %q", pub.Email)
	}
}

func TestHandleCallbackUnapproved(t *testing.T) {
	p := &mockProvider{identity: &provider.Identity{Email: "dana@example.com"}}
	users := &mockUsers{user: &model.User{
		ID:       "68b000000000000000000001",
		Email:    "dana@example.com",
		Verified: true,
	}}

	redirect := newAuthService(p, users).HandleCallback(context.Background(), "code")
	if !strings.HasPrefix(redirect, "http://localhost:3000/auth/error?") {
		t.Fatalf("unapproved user must land on the error page, got %q", redirect)
	}
}

func TestHandleCallbackAllowListedAdmin(t *testing.T) {
	p := &mockProvider{identity: &provider.Identity{Email: "admin@example.com"}}
	users := &mockUsers{user: &model.User{
		ID:       "68b000000000000000000002",
		Email:    "admin@example.com",
		Verified: true,
	}}

	redirect := newAuthService(p, users, "admin@example.com").HandleCallback(context.Background(), "code")
	if !strings.HasPrefix(redirect, "http://localhost:3000/auth/success?") {
		t.Fatalf("allow-listed admin must succeed unapproved, got %q", redirect)
	}
}

func TestHandleCallbackProviderFailure(t *testing.T) {
	p := &mockProvider{err: errors.New("exchange failed")}

	redirect := newAuthService(p, &mockUsers{}).HandleCallback(context.Background(), "code")
	if !strings.HasPrefix(redirect, "http://localhost:3000/auth/error?") {
		t.Fatalf("provider failure must land on the error page, got %q", redirect)
	}
}
