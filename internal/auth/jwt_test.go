package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"caretrek-backend/internal/config"
	"caretrek-backend/internal/models"
)

func testManager() *JWTManager {
	return NewJWTManager(&config.Config{
		JWT: config.JWTConfig{
			Secret:    "0123456789abcdef0123456789abcdef",
			ExpiryHrs: 1,
			Issuer:    "caretrek-test",
		},
	})
}

func TestGenerateAndVerifyToken(t *testing.T) {
	m := testManager()
	user := &models.User{ID: 42, Email: "martha@example.com", Role: models.RoleSenior}

	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "martha@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != models.RoleSenior {
		t.Errorf("Role = %q, want senior", claims.Role)
	}
	if claims.Issuer != "caretrek-test" {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	m := testManager()
	other := NewJWTManager(&config.Config{
		JWT: config.JWTConfig{Secret: "ffffffffffffffffffffffffffffffff", ExpiryHrs: 1},
	})

	token, err := other.GenerateToken(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := m.VerifyToken(token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	m := testManager()

	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.VerifyToken(token); err == nil {
		t.Error("expired token should be rejected")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	m := testManager()
	if _, err := m.VerifyToken("not-a-token"); err == nil {
		t.Error("garbage should be rejected")
	}
}

func TestRoleDefaultsToSenior(t *testing.T) {
	m := testManager()

	// A token issued before the role claim existed
	claims := &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	verified, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if verified.Role != models.RoleSenior {
		t.Errorf("missing role should default to senior, got %q", verified.Role)
	}
}
