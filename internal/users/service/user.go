package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	userserrors "kairooms/internal/users/errors"
	"kairooms/internal/users/repository"
	"kairooms/internal/users/validator"
	"kairooms/pkg/config"
	apperrors "kairooms/pkg/errors"
	"kairooms/pkg/events"
	"kairooms/pkg/mail"
	"kairooms/pkg/model"
	"kairooms/pkg/sanitizer"
	"kairooms/pkg/storage"
	"kairooms/pkg/token"
)

type UserService interface {
	Register(ctx context.Context, reg *model.Registration) (*model.User, error)
	Verify(ctx context.Context, verification *model.Verification) error
	Login(ctx context.Context, creds *model.Credentials) (string, *model.User, error)

	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, actor *model.User, userID string, update *model.ProfileUpdate) (*model.User, error)
	UploadAvatar(ctx context.Context, actor *model.User, userID, ext string, image io.Reader) (*model.User, error)
	RemoveAvatar(ctx context.Context, actor *model.User, userID string) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken string, reset *model.PasswordReset) error

	Approve(ctx context.Context, actor *model.User, userID string) (*model.User, error)
	PendingUsers(ctx context.Context, actor *model.User) ([]*model.User, error)

	EnsureGoogleUser(ctx context.Context, name, email, avatar string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	mailer    mail.Mailer
	issuer    *token.Issuer
	store     storage.AvatarStore
	publisher events.Publisher
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	mailer mail.Mailer,
	issuer *token.Issuer,
	store storage.AvatarStore,
	publisher events.Publisher,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		mailer:    mailer,
		issuer:    issuer,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Register creates an unverified, unapproved local account and mails the
// verification code. The account is not persisted when the mail cannot be
// sent, so a registration never strands a user without a code.
func (s *userService) Register(ctx context.Context, reg *model.Registration) (*model.User, error) {
	reg.Name = sanitizer.TrimAndNormalize(reg.Name)
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Phone = strings.TrimSpace(reg.Phone)

	if err := s.validator.ValidateRegistration(reg); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "error", err)
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.FindByEmail(ctx, reg.Email); err == nil {
		return nil, apperrors.Conflict("An account with this email already exists")
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	code, err := verificationCode()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate verification code", err)
	}

	user := &model.User{
		Name:             reg.Name,
		Email:            reg.Email,
		Phone:            reg.Phone,
		PasswordHash:     string(hash),
		VerificationCode: code,
	}

	msg := mail.Message{
		To:      []string{user.Email},
		Subject: "Verify your email",
		HTML:    verificationBody(user.Name, code),
	}
	if err := s.mailer.Send(msg); err != nil {
		s.cfg.Log.Error("Failed to send verification mail", "email", user.Email, "error", err)
		return nil, apperrors.Upstream("mail", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("An account with this email already exists")
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "email", user.Email)
	s.publisher.Publish(ctx, user.Email, events.TypeUserRegistered, user.Public())
	return user, nil
}

// Verify confirms the emailed code. The code is single use: it is cleared on
// success, so replaying it fails like any wrong code.
func (s *userService) Verify(ctx context.Context, verification *model.Verification) error {
	verification.Email = strings.ToLower(strings.TrimSpace(verification.Email))
	verification.Code = strings.TrimSpace(verification.Code)

	if err := s.validator.ValidateVerification(verification); err != nil {
		return apperrors.Validation("Verification validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.findByEmail(ctx, verification.Email)
	if err != nil {
		return err
	}

	if user.Verified {
		return apperrors.InvalidInput("Email is already verified")
	}
	if user.VerificationCode == "" || user.VerificationCode != strings.ToUpper(verification.Code) {
		return apperrors.InvalidInput("Invalid verification code")
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return apperrors.Internal("Failed to mark user verified", err)
	}

	s.cfg.Log.Info("User verified", "id", user.ID, "email", user.Email)
	s.publisher.Publish(ctx, user.Email, events.TypeUserVerified, user.Public())
	return nil
}

// Login runs the credential gates in a fixed order: unknown email, Google
// origin, wrong password, unverified, unapproved. Allow-listed admins skip
// the approval gate.
func (s *userService) Login(ctx context.Context, creds *model.Credentials) (string, *model.User, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))

	if err := s.validator.ValidateCredentials(creds); err != nil {
		return "", nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.findByEmail(ctx, creds.Email)
	if err != nil {
		return "", nil, err
	}

	if user.IsGoogleUser && user.PasswordHash == "" {
		return "", nil, apperrors.Forbidden("This account uses Google sign-in. Please log in with Google.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.cfg.Log.Warn("Login failed: wrong password", "email", creds.Email)
		return "", nil, apperrors.Unauthorized("Invalid email or password")
	}

	if !user.Verified {
		return "", nil, apperrors.Forbidden("Please verify your email before logging in")
	}

	if !user.IsApproved && !s.cfg.IsAdminEmail(user.Email) {
		return "", nil, apperrors.Forbidden("Your account is pending admin approval")
	}

	signed, err := s.issuer.Generate(user.ID, user.Email)
	if err != nil {
		return "", nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "email", user.Email)
	return signed, user, nil
}

func (s *userService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.translateLookup(err, userID)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *model.User, userID string, update *model.ProfileUpdate) (*model.User, error) {
	if actor.ID != userID {
		return nil, apperrors.Forbidden("You can only update your own profile")
	}

	update.Name = sanitizer.TrimAndNormalize(update.Name)
	update.Email = strings.ToLower(strings.TrimSpace(update.Email))
	update.Phone = strings.TrimSpace(update.Phone)
	update.Department = sanitizer.TrimAndNormalize(update.Department)

	if err := s.validator.ValidateProfileUpdate(update); err != nil {
		return nil, apperrors.Validation("Profile validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("An account with this email already exists")
		}
		return nil, s.translateLookup(err, userID)
	}

	s.cfg.Log.Info("Profile updated", "id", user.ID)
	return user, nil
}

// UploadAvatar stores the new image and records its public reference. The
// previous image, if any, is removed from disk after the swap.
func (s *userService) UploadAvatar(ctx context.Context, actor *model.User, userID, ext string, image io.Reader) (*model.User, error) {
	if actor.ID != userID {
		return nil, apperrors.Forbidden("You can only update your own avatar")
	}

	ref, err := s.store.Save(userID, ext, image)
	if err != nil {
		return nil, apperrors.InvalidInput("Could not store image: " + err.Error())
	}

	previous := actor.Avatar
	user, err := s.repo.SetAvatar(ctx, userID, ref)
	if err != nil {
		if removeErr := s.store.Delete(ref); removeErr != nil {
			s.cfg.Log.Warn("Failed to remove orphaned avatar", "ref", ref, "error", removeErr)
		}
		return nil, s.translateLookup(err, userID)
	}

	if previous != "" {
		if err := s.store.Delete(previous); err != nil {
			s.cfg.Log.Warn("Failed to remove previous avatar", "ref", previous, "error", err)
		}
	}

	s.cfg.Log.Info("Avatar uploaded", "id", user.ID, "ref", ref)
	return user, nil
}

func (s *userService) RemoveAvatar(ctx context.Context, actor *model.User, userID string) error {
	if actor.ID != userID {
		return apperrors.Forbidden("You can only update your own avatar")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return s.translateLookup(err, userID)
	}
	if user.Avatar == "" {
		return apperrors.NotFound("No avatar to remove")
	}

	if err := s.store.Delete(user.Avatar); err != nil {
		s.cfg.Log.Warn("Failed to delete avatar file", "ref", user.Avatar, "error", err)
	}
	if err := s.repo.ClearAvatar(ctx, userID); err != nil {
		return apperrors.Internal("Failed to clear avatar", err)
	}

	s.cfg.Log.Info("Avatar removed", "id", userID)
	return nil
}

// ForgotPassword always returns nil for a well-formed request. Whether the
// email exists, and whether the account is Google-only, must not be
// observable from the response.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.InvalidInput("Email is required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			s.cfg.Log.Info("Password reset requested for unknown email")
			return nil
		}
		return apperrors.Internal("Failed to look up user", err)
	}

	if user.IsGoogleUser && user.PasswordHash == "" {
		s.cfg.Log.Info("Password reset requested for Google account", "id", user.ID)
		return nil
	}

	resetToken, err := newResetToken()
	if err != nil {
		return apperrors.Internal("Failed to generate reset token", err)
	}

	expires := time.Now().Add(config.ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, resetToken, expires); err != nil {
		return apperrors.Internal("Failed to store reset token", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.cfg.FrontendURL, "/"), resetToken)
	msg := mail.Message{
		To:      []string{user.Email},
		Subject: "Reset your password",
		HTML:    resetBody(user.Name, link),
	}
	if err := s.mailer.Send(msg); err != nil {
		s.cfg.Log.Error("Failed to send reset mail", "id", user.ID, "error", err)
		return apperrors.Upstream("mail", err)
	}

	s.cfg.Log.Info("Password reset mail sent", "id", user.ID)
	return nil
}

// ResetPassword completes the flow. Expired tokens are indistinguishable
// from unknown ones: both fail the lookup.
func (s *userService) ResetPassword(ctx context.Context, resetToken string, reset *model.PasswordReset) error {
	resetToken = strings.TrimSpace(resetToken)
	if resetToken == "" {
		return apperrors.InvalidInput("Reset token is required")
	}

	if err := s.validator.ValidatePasswordReset(reset); err != nil {
		return apperrors.Validation("Password validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByResetToken(ctx, resetToken, time.Now())
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.InvalidInput("Invalid or expired reset token")
		}
		return apperrors.Internal("Failed to look up reset token", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reset.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}

	if err := s.repo.ReplacePassword(ctx, user.ID, string(hash)); err != nil {
		return apperrors.Internal("Failed to update password", err)
	}

	s.cfg.Log.Info("Password reset completed", "id", user.ID)
	return nil
}

// Approve flips the approval flag. Only allow-listed admins may call it, and
// approving twice is a conflict rather than a silent no-op.
func (s *userService) Approve(ctx context.Context, actor *model.User, userID string) (*model.User, error) {
	if !s.cfg.IsAdminEmail(actor.Email) {
		return nil, apperrors.Forbidden("Only administrators can approve users")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.translateLookup(err, userID)
	}
	if user.IsApproved {
		return nil, apperrors.Conflict("User is already approved")
	}

	if err := s.repo.MarkApproved(ctx, userID); err != nil {
		return nil, apperrors.Internal("Failed to approve user", err)
	}
	user.IsApproved = true

	s.cfg.Log.Info("User approved", "id", user.ID, "approved_by", actor.Email)
	s.publisher.Publish(ctx, user.Email, events.TypeUserApproved, user.Public())
	return user, nil
}

func (s *userService) PendingUsers(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if !s.cfg.IsAdminEmail(actor.Email) {
		return nil, apperrors.Forbidden("Only administrators can list pending users")
	}

	users, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list pending users", err)
	}
	return users, nil
}

// EnsureGoogleUser resolves the account behind a Google identity, creating
// it on first sign-in. Google accounts are born verified; allow-listed
// admins are born approved too.
func (s *userService) EnsureGoogleUser(ctx context.Context, name, email, avatar string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.InvalidInput("Google identity has no email")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, userserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	user = &model.User{
		Name:         sanitizer.TrimAndNormalize(name),
		Email:        email,
		Avatar:       avatar,
		Verified:     true,
		IsGoogleUser: true,
		IsApproved:   s.cfg.IsAdminEmail(email),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return s.findByEmail(ctx, email)
		}
		return nil, apperrors.Internal("Failed to create Google user", err)
	}

	s.cfg.Log.Info("Google user created", "id", user.ID, "email", user.Email)
	s.publisher.Publish(ctx, user.Email, events.TypeUserRegistered, user.Public())
	return user, nil
}

func (s *userService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("No account found for this email")
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}
	return user, nil
}

func (s *userService) translateLookup(err error, userID string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("user", userID)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	default:
		return apperrors.Internal("Failed to load user", err)
	}
}

// verificationCode returns an uppercase hex code of the configured length.
func verificationCode() (string, error) {
	buf := make([]byte, (config.VerificationCodeLength+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := strings.ToUpper(hex.EncodeToString(buf))
	return code[:config.VerificationCodeLength], nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
