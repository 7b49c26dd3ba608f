package config

import "time"

type ClientConfig interface {
	GetAPIURL() string
	GetHTTPTimeout() time.Duration
	GetJWKSURL() string
}

// Client holds settings for talking to the remote church API.
type Client struct {
	APIURL      string        `env:"API_URL"      envDefault:"http://localhost:5000/api"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	// JWKSURL enables signature verification of access tokens when set.
	JWKSURL string `env:"JWKS_URL"`
}

var _ ClientConfig = Client{}

func (c Client) GetAPIURL() string {
	return c.APIURL
}

func (c Client) GetHTTPTimeout() time.Duration {
	return c.HTTPTimeout
}

func (c Client) GetJWKSURL() string {
	return c.JWKSURL
}
