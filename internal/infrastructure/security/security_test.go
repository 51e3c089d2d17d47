package security

import (
	"testing"
	"time"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	claims, err := ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if !IsAdminClaims(claims) {
		t.Error("admin token claims lost the admin role")
	}

	if _, err := ValidateJWT(token, "wrong-secret"); err == nil {
		t.Error("token validated against the wrong secret")
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateAdminToken("secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if _, err := ValidateJWT(token, "secret"); err == nil {
		t.Error("expired token validated")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword("hunter2", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("hunter3", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateULID(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()
	if len(a) != 26 || a == b {
		t.Errorf("ULIDs %q, %q", a, b)
	}
}
