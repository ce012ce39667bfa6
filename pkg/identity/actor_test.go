package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/config"
	"github.com/calebreyes/storefront-backend/pkg/db/models"
)

func strPtr(s string) *string { return &s }

func TestOwns(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()

	userOrder := &models.Order{UserID: &userID}
	guestOrder := &models.Order{GuestToken: strPtr("tok-1")}

	if !User(userID).Owns(userOrder) {
		t.Fatal("user should own their order")
	}
	if User(otherID).Owns(userOrder) {
		t.Fatal("user should not own someone else's order")
	}
	if !Guest("tok-1").Owns(guestOrder) {
		t.Fatal("guest should own order carrying their token")
	}
	if Guest("tok-2").Owns(guestOrder) {
		t.Fatal("guest with wrong token should not own the order")
	}
	if Guest("").Owns(&models.Order{GuestToken: strPtr("")}) {
		t.Fatal("empty guest tokens must never match")
	}
	if !Admin(uuid.New()).Owns(userOrder) {
		t.Fatal("admin should own every order")
	}
}

func TestParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "identity.test"}
	userID := uuid.New()

	mint := func(role Role, secret, issuer string) string {
		claims := AccessTokenClaims{
			UserID: userID,
			Role:   role,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		return signed
	}

	actor, err := ParseAccessToken(cfg, mint(RoleUser, cfg.Secret, cfg.Issuer))
	if err != nil {
		t.Fatalf("parse valid token: %v", err)
	}
	if !actor.IsRegistered() || *actor.UserID != userID {
		t.Fatalf("unexpected actor %+v", actor)
	}

	admin, err := ParseAccessToken(cfg, mint(RoleAdmin, cfg.Secret, cfg.Issuer))
	if err != nil {
		t.Fatalf("parse admin token: %v", err)
	}
	if !admin.IsAdmin() {
		t.Fatalf("expected admin actor, got %+v", admin)
	}

	if _, err := ParseAccessToken(cfg, mint(RoleUser, "wrong-secret", cfg.Issuer)); err == nil {
		t.Fatal("token signed with wrong secret must be rejected")
	}
	if _, err := ParseAccessToken(cfg, mint(RoleUser, cfg.Secret, "other-issuer")); err == nil {
		t.Fatal("token with wrong issuer must be rejected")
	}
	if _, err := ParseAccessToken(cfg, mint(RoleGuest, cfg.Secret, cfg.Issuer)); err == nil {
		t.Fatal("guest role must never arrive via JWT")
	}
}
