package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewHMACService("secret", time.Hour, "skills-matrix")

	tok, issued, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if issued.TokenID() == "" {
		t.Fatalf("expected a token id")
	}

	c, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if c.Username != "admin" || c.Subject != "admin" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if c.TokenID() != issued.TokenID() {
		t.Fatalf("jti mismatch: %s vs %s", c.TokenID(), issued.TokenID())
	}
}

func TestValidate_Expired(t *testing.T) {
	svc := NewHMACService("secret", time.Minute, "")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, _, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, _, err := NewHMACService("one", time.Hour, "").GenerateToken("admin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewHMACService("two", time.Hour, "").ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	c := Claims{
		Username: "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, c).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewHMACService("secret", time.Hour, "").ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	if _, err := NewHMACService("secret", time.Hour, "").ValidateToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGenerate_RequiresUsername(t *testing.T) {
	if _, _, err := NewHMACService("secret", time.Hour, "").GenerateToken("  "); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
