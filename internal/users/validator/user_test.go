package validator

import (
	"io"
	"testing"

	"kairooms/pkg/logger"
	"kairooms/pkg/model"
)

func newValidator() *UserValidator {
	return NewUserValidator(logger.New(logger.Config{Level: "error", Output: io.Discard}))
}

func TestValidateRegistration(t *testing.T) {
	v := newValidator()

	ok := &model.Registration{Name: "Dana", Email: "dana@example.com", Password: "correct-horse"}
	if err := v.ValidateRegistration(ok); err != nil {
		t.Fatalf("expected valid registration, got %v", err)
	}

	tests := []struct {
		name string
		reg  model.Registration
	}{
		{"missing name", model.Registration{Email: "dana@example.com", Password: "correct-horse"}},
		{"one-letter name", model.Registration{Name: "D", Email: "dana@example.com", Password: "correct-horse"}},
		{"bad email", model.Registration{Name: "Dana", Email: "not-an-email", Password: "correct-horse"}},
		{"short password", model.Registration{Name: "Dana", Email: "dana@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateRegistration(&tt.reg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateVerification(t *testing.T) {
	v := newValidator()

	if err := v.ValidateVerification(&model.Verification{Email: "dana@example.com", Code: "A1B2C3"}); err != nil {
		t.Fatalf("expected valid verification, got %v", err)
	}
	if err := v.ValidateVerification(&model.Verification{Email: "dana@example.com", Code: "A1B2"}); err == nil {
		t.Error("short code must fail validation")
	}
}

func TestValidateProfileUpdateAllowsPartial(t *testing.T) {
	v := newValidator()

	if err := v.ValidateProfileUpdate(&model.ProfileUpdate{}); err != nil {
		t.Errorf("empty update means leave everything unchanged, got %v", err)
	}
	if err := v.ValidateProfileUpdate(&model.ProfileUpdate{Department: "Platform"}); err != nil {
		t.Errorf("single-field update must pass, got %v", err)
	}
	if err := v.ValidateProfileUpdate(&model.ProfileUpdate{Email: "nope"}); err == nil {
		t.Error("malformed email must fail validation")
	}
}

func TestValidatePasswordReset(t *testing.T) {
	v := newValidator()

	if err := v.ValidatePasswordReset(&model.PasswordReset{Password: "new-password-1"}); err != nil {
		t.Fatalf("expected valid reset, got %v", err)
	}
	if err := v.ValidatePasswordReset(&model.PasswordReset{Password: "tiny"}); err == nil {
		t.Error("short password must fail validation")
	}
}
