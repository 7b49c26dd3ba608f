package token

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the subject an access token is minted for.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// Creator mints access tokens in the shape the church API issues them:
// user_id, email, role, iat, exp and a jti.
type Creator struct {
	signer Signer
	expiry time.Duration
}

func NewCreator(signer Signer, expiry time.Duration) *Creator {
	return &Creator{
		signer: signer,
		expiry: expiry,
	}
}

// CreateAccessToken creates a signed access token for the identity
func (c *Creator) CreateAccessToken(id Identity) (string, error) {
	if id.ID == "" {
		return "", errors.New("identity has no id")
	}

	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"user_id": id.ID,
		"email":   id.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(c.expiry).Unix(),
		"jti":     uuid.New().String(),
	}
	if id.Role != "" {
		claims["role"] = string(id.Role)
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token minted by this creator, returning its claims.
func (c *Creator) Verify(rawToken string) (*Claims, error) {
	parsed, err := jwtlib.Parse(rawToken, c.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := Decode(rawToken)
	if !ok {
		return nil, errors.New("error extracting claims from token")
	}
	return claims, nil
}
