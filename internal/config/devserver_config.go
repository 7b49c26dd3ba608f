package config

import (
	"fmt"
	"strings"
	"time"
)

type DevServerConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
	GetAllowedOrigins() []string
	GetSeedPassword() string
}

// DevServer configures the local development API.
type DevServer struct {
	Port               string        `env:"PORT"                 envDefault:"5000"`
	JWTSecret          string        `env:"JWT_SECRET"           envDefault:"dev-secret-change-me"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_TTL"     envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_TTL"    envDefault:"168h"`
	RefreshTokenLength int           `env:"REFRESH_TOKEN_LENGTH" envDefault:"32"`
	AllowedOrigins     []string      `env:"ALLOWED_ORIGINS"      envDefault:"http://localhost:3000" envSeparator:","`
	// SeedPassword is given to the seeded accounts; a random one is generated when empty.
	SeedPassword string `env:"DEV_SEED_PASSWORD"`
}

var _ DevServerConfig = DevServer{}

func (d DevServer) GetPort() string {
	port := d.Port
	if port == "" {
		port = "5000"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (d DevServer) GetJWTSecret() string {
	return d.JWTSecret
}

func (d DevServer) GetAccessTokenExpiry() time.Duration {
	return d.AccessTokenExpiry
}

func (d DevServer) GetRefreshTokenExpiry() time.Duration {
	return d.RefreshTokenExpiry
}

func (d DevServer) GetRefreshTokenLength() int {
	if d.RefreshTokenLength <= 0 {
		return 32 // 32 bytes = 256 bits
	}
	return d.RefreshTokenLength
}

func (d DevServer) GetAllowedOrigins() []string {
	return d.AllowedOrigins
}

func (d DevServer) GetSeedPassword() string {
	return d.SeedPassword
}
