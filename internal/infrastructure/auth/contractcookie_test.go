package auth

import (
	"testing"
)

func TestContractCookieSigner_RoundTrip(t *testing.T) {
	signer := NewContractCookieSigner("test-secret", 1)

	value, err := signer.Sign(42, "payman-abc123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	claims, err := signer.Verify(value)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %v, want 42", claims.UserID)
	}
	if claims.Authority != "payman-abc123" {
		t.Errorf("Authority = %v, want payman-abc123", claims.Authority)
	}
}

func TestContractCookieSigner_SignRejectsMissingFields(t *testing.T) {
	signer := NewContractCookieSigner("test-secret", 1)

	if _, err := signer.Sign(0, "payman-abc123"); err == nil {
		t.Error("Sign() with zero user should fail")
	}
	if _, err := signer.Sign(42, ""); err == nil {
		t.Error("Sign() with empty authority should fail")
	}
}

func TestContractCookieSigner_VerifyInvalidValues(t *testing.T) {
	signer := NewContractCookieSigner("test-secret", 1)

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := signer.Verify(tt.value); err == nil {
				t.Error("Verify() should fail")
			}
		})
	}
}

func TestContractCookieSigner_WrongSecret(t *testing.T) {
	signer := NewContractCookieSigner("secret-one", 1)
	other := NewContractCookieSigner("secret-two", 1)

	value, err := signer.Sign(42, "payman-abc123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := other.Verify(value); err == nil {
		t.Error("Verify() with wrong secret should fail")
	}
}

func TestContractCookieSigner_AccessTokenRejected(t *testing.T) {
	jwtService := NewJWTService("shared-secret", 15)
	signer := NewContractCookieSigner("shared-secret", 1)

	token, err := jwtService.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Same secret, different claim shape: the access token carries no
	// authority, so it must not pass as a contract cookie.
	if _, err := signer.Verify(token); err == nil {
		t.Error("Verify() should reject an access token")
	}
}

func TestContractCookieSigner_VerifyForAuthority(t *testing.T) {
	signer := NewContractCookieSigner("test-secret", 1)

	value, err := signer.Sign(42, "payman-abc123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := signer.VerifyForAuthority(value, "payman-abc123"); err != nil {
		t.Errorf("VerifyForAuthority() error = %v", err)
	}
	if _, err := signer.VerifyForAuthority(value, "payman-other"); err == nil {
		t.Error("VerifyForAuthority() with mismatched authority should fail")
	}
}

func TestContractCookieSigner_MaxAge(t *testing.T) {
	if got := NewContractCookieSigner("s", 2).MaxAge(); got != 7200 {
		t.Errorf("MaxAge() = %v, want 7200", got)
	}
	// Non-positive hours fall back to one hour.
	if got := NewContractCookieSigner("s", 0).MaxAge(); got != 3600 {
		t.Errorf("MaxAge() = %v, want 3600", got)
	}
}
