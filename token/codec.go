package token

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const defaultVerifyTimeout = 5 * time.Second

// Codec decodes bearer tokens into Claims. Decoding never returns an error:
// anything that cannot be decoded is reported as "no claims".
type Codec struct {
	parser        *jwtlib.Parser
	keySet        oidc.KeySet
	verifyTimeout time.Duration
	logger        zerolog.Logger
}

type CodecOption func(*Codec)

// WithKeySet makes the codec reject tokens whose signature cannot be verified
// by the key set.
func WithKeySet(ks oidc.KeySet) CodecOption {
	return func(c *Codec) {
		c.keySet = ks
	}
}

func WithVerifyTimeout(d time.Duration) CodecOption {
	return func(c *Codec) {
		if d > 0 {
			c.verifyTimeout = d
		}
	}
}

func WithLogger(logger zerolog.Logger) CodecOption {
	return func(c *Codec) {
		c.logger = logger
	}
}

func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		parser:        jwtlib.NewParser(),
		verifyTimeout: defaultVerifyTimeout,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// parse verifies the signature when a key set is configured and returns the
// raw claims.
func (c *Codec) parse(rawToken string) (jwtlib.MapClaims, bool) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, false
	}

	if c.keySet != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.verifyTimeout)
		defer cancel()
		if _, err := c.keySet.VerifySignature(ctx, rawToken); err != nil {
			c.logger.Debug().Err(err).Msg("token signature rejected")
			return nil, false
		}
	}

	parsed, _, err := c.parser.ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		c.logger.Debug().Err(err).Msg("error decoding token")
		return nil, false
	}

	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	return mc, ok
}

// Decode turns a raw bearer token into Claims. The second return value is
// false when the token is empty, malformed, fails signature verification, or
// carries a role this client does not know.
func (c *Codec) Decode(rawToken string) (*Claims, bool) {
	mc, ok := c.parse(rawToken)
	if !ok {
		return nil, false
	}

	claims := &Claims{
		SubjectID: idString(mc["user_id"]),
	}
	claims.Email, _ = mc["email"].(string)

	if rawRole, present := mc["role"]; present && rawRole != nil {
		roleStr, _ := rawRole.(string)
		role, ok := ParseRole(roleStr)
		if !ok {
			c.logger.Debug().Interface("role", rawRole).Msg("token carries unknown role")
			return nil, false
		}
		claims.Role = role
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		c.logger.Debug().Err(err).Msg("error reading exp claim")
		return nil, false
	}
	if exp != nil {
		t := exp.Time.Truncate(time.Second)
		claims.ExpiresAt = &t
	}

	iat, err := mc.GetIssuedAt()
	if err != nil {
		c.logger.Debug().Err(err).Msg("error reading iat claim")
		return nil, false
	}
	if iat != nil {
		t := iat.Time.Truncate(time.Second)
		claims.IssuedAt = &t
	}

	return claims, true
}

// IsExpired is true when the token cannot be parsed, has no readable exp
// claim, or the current time is at or past its expiry. Only exp is consulted.
func (c *Codec) IsExpired(rawToken string) bool {
	mc, ok := c.parse(rawToken)
	if !ok {
		return true
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !NowTimeFunc().Before(exp.Time.Truncate(time.Second))
}

func (c *Codec) RoleOf(rawToken string) (Role, bool) {
	claims, ok := c.Decode(rawToken)
	if !ok || claims.Role == "" {
		return "", false
	}
	return claims.Role, true
}

func (c *Codec) SubjectID(rawToken string) (string, bool) {
	claims, ok := c.Decode(rawToken)
	if !ok || claims.SubjectID == "" {
		return "", false
	}
	return claims.SubjectID, true
}

var defaultCodec = NewCodec()

// Decode decodes rawToken with an unverifying codec.
func Decode(rawToken string) (*Claims, bool) {
	return defaultCodec.Decode(rawToken)
}

func IsExpired(rawToken string) bool {
	return defaultCodec.IsExpired(rawToken)
}

func RoleOf(rawToken string) (Role, bool) {
	return defaultCodec.RoleOf(rawToken)
}

func SubjectID(rawToken string) (string, bool) {
	return defaultCodec.SubjectID(rawToken)
}

// idString accepts user ids issued either as JSON strings or numbers.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}
