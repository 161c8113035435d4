package token

import (
	"testing"
	"time"
)

func TestGenerateAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	signed, err := issuer.Generate("68b000000000000000000001", "dana@example.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "68b000000000000000000001" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Email != "dana@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret-one", time.Hour).Generate("id", "a@b.com")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewIssuer("secret-two", time.Hour).Verify(signed); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	signed, err := issuer.Generate("id", "a@b.com")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := issuer.Verify(signed); err == nil {
		t.Error("expired token must not verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewIssuer("test-secret", time.Hour).Verify("not.a.token"); err == nil {
		t.Error("garbage must not verify")
	}
}
