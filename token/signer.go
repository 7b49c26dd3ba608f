package token

import (
	"crypto/rsa"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwtlib.MapClaims) (string, error)

	// GetVerificationKey returns the key used to verify a parsed token
	GetVerificationKey(token *jwtlib.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwtlib.SigningMethod
}

// HMACSigner implements Signer using symmetric HMAC-SHA256
type HMACSigner struct {
	secret []byte
}

var _ Signer = (*HMACSigner)(nil)

// NewHMACSigner creates a new HMAC signer with the given secret
func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{
		secret: []byte(secret),
	}
}

func (h *HMACSigner) Sign(claims jwtlib.MapClaims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC: %w", err)
	}
	return signedToken, nil
}

func (h *HMACSigner) GetVerificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACSigner) GetSigningMethod() jwtlib.SigningMethod {
	return jwtlib.SigningMethodHS256
}

// RSASigner implements Signer using an RSA key pair (RS256)
type RSASigner struct {
	key   *rsa.PrivateKey
	keyID string
}

var _ Signer = (*RSASigner)(nil)

func NewRSASigner(key *rsa.PrivateKey, keyID string) *RSASigner {
	return &RSASigner{key: key, keyID: keyID}
}

func (r *RSASigner) Sign(claims jwtlib.MapClaims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	if r.keyID != "" {
		token.Header["kid"] = r.keyID
	}
	signedToken, err := token.SignedString(r.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with RSA key: %w", err)
	}
	return signedToken, nil
}

func (r *RSASigner) GetVerificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return &r.key.PublicKey, nil
}

func (r *RSASigner) GetSigningMethod() jwtlib.SigningMethod {
	return jwtlib.SigningMethodRS256
}

// PublicKey exposes the verification key, e.g. for an oidc.StaticKeySet.
func (r *RSASigner) PublicKey() *rsa.PublicKey {
	return &r.key.PublicKey
}
