package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	ClientConfig
	StoreConfig
	DevServerConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Client
	Store
	DevServer
}

// New returns a Config populated from defaults and the process environment.
// It panics only if a default value fails to parse, which is a programming error.
func New() Config {
	var c mainConfig
	if err := env.Parse(&c); err != nil {
		panic(fmt.Sprintf("[config New] %v", err))
	}
	return c
}

// Load reads an optional .env file in the working directory and then parses
// the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("[config Load] load .env file: %w", err)
		}
	}

	var c mainConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("[config Load] parse environment: %w", err)
	}
	return c, nil
}
