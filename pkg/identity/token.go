package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// AccessTokenClaims is the shape minted by the upstream identity provider.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}

// ParseAccessToken validates the JWT string and returns an Actor.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (Actor, error) {
	if cfg.Secret == "" {
		return Actor{}, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return Actor{}, err
	}

	switch claims.Role {
	case RoleAdmin:
		return Admin(claims.UserID), nil
	case RoleUser:
		return User(claims.UserID), nil
	default:
		return Actor{}, fmt.Errorf("unexpected role %q in access token", claims.Role)
	}
}
